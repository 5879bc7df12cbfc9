package sdf

import (
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/material"
)

// Sphere is a ball around Center
type Sphere struct {
	Center core.Point3
	Radius float64
}

// NewSphere creates a sphere
func NewSphere(center core.Point3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// NewUnitSphere creates a sphere of radius 1 at the origin
func NewUnitSphere() *Sphere {
	return NewSphere(core.Origin, 1)
}

// ValueAt implements SDF
func (s *Sphere) ValueAt(p core.Point3) (float64, material.Index) {
	return p.Subtract(s.Center).Length() - s.Radius, material.NoMaterial
}

// EstimateNormal returns the analytic normal, which is exact everywhere but the center
func (s *Sphere) EstimateNormal(p core.Point3, eps float64) core.UnitVec3 {
	d := p.Subtract(s.Center)
	if d.IsZero() {
		return CentralDifferenceNormal(s, p, eps)
	}
	return d.Unit()
}

// Box is an axis-aligned box given by its center and half extents
type Box struct {
	Center      core.Point3
	HalfExtents core.Vec3
}

// NewBox creates a box
func NewBox(center core.Point3, halfExtents core.Vec3) *Box {
	return &Box{Center: center, HalfExtents: halfExtents}
}

// NewCube creates a cube with the given full side length
func NewCube(center core.Point3, side float64) *Box {
	h := side / 2
	return NewBox(center, core.NewVec3(h, h, h))
}

// NewUnitCube creates the cube spanning [-1,1] on every axis
func NewUnitCube() *Box {
	return NewCube(core.Origin, 2)
}

// ValueAt implements SDF. Outside points get the euclidean distance to the
// box, inside points the negative distance to the nearest face.
func (b *Box) ValueAt(p core.Point3) (float64, material.Index) {
	d := p.Subtract(b.Center).Abs().Subtract(b.HalfExtents)
	inside := min(d.MaxComponent(), 0)
	outside := d.Max(core.Vec3{}).Length()
	return inside + outside, material.NoMaterial
}

// HalfSpace is the solid on the side of a plane opposite its normal. The plane
// is the set of points p with dot(p, Normal) == Offset.
type HalfSpace struct {
	Normal core.UnitVec3
	Offset float64
}

// NewHalfSpace creates a half-space bounded by the plane through point with the given normal
func NewHalfSpace(point core.Point3, normal core.Vec3) *HalfSpace {
	n := normal.Unit()
	return &HalfSpace{Normal: n, Offset: point.Vec().Dot(n.Vec())}
}

// NewFloor creates the half-space solid below y = height
func NewFloor(height float64) *HalfSpace {
	return NewHalfSpace(core.NewPoint3(0, height, 0), core.NewVec3(0, 1, 0))
}

// ValueAt implements SDF
func (h *HalfSpace) ValueAt(p core.Point3) (float64, material.Index) {
	return p.Vec().Dot(h.Normal.Vec()) - h.Offset, material.NoMaterial
}

// EstimateNormal returns the plane normal
func (h *HalfSpace) EstimateNormal(core.Point3, float64) core.UnitVec3 {
	return h.Normal
}

// Arbitrary wraps a closed-form distance function. It is the escape hatch for
// shapes the other nodes cannot express; the function must keep the
// Lipschitz bound (divide by a safety factor if it does not).
func Arbitrary(f func(p core.Point3) (float64, material.Index)) Func {
	if f == nil {
		panic("sdf: nil function to Arbitrary")
	}
	return Func(f)
}
