package sdf

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/material"
)

// Translated moves its child by V
type Translated struct {
	Child SDF
	V     core.Vec3
}

// Translate moves a shape by v
func Translate(child SDF, v core.Vec3) *Translated {
	mustNotBeNil("Translate", child)
	return &Translated{Child: child, V: v}
}

// ValueAt implements SDF
func (t *Translated) ValueAt(p core.Point3) (float64, material.Index) {
	return t.Child.ValueAt(p.Offset(t.V))
}

// EstimateNormal forwards to the child, translation leaves normals unchanged
func (t *Translated) EstimateNormal(p core.Point3, eps float64) core.UnitVec3 {
	return EstimateNormal(t.Child, p.Offset(t.V), eps)
}

// Scaled scales its child uniformly by Factor
type Scaled struct {
	Child  SDF
	Factor float64
}

// ScaleUniform scales a shape by f around the origin. Only uniform scaling
// keeps distances Lipschitz-1, so there is no per-axis variant.
func ScaleUniform(child SDF, f float64) *Scaled {
	mustNotBeNil("ScaleUniform", child)
	if !(f > 0) || math.IsInf(f, 0) {
		panic("sdf: scale factor must be positive and finite")
	}
	return &Scaled{Child: child, Factor: f}
}

// ValueAt implements SDF
func (s *Scaled) ValueAt(p core.Point3) (float64, material.Index) {
	d, m := s.Child.ValueAt(core.Point3(p.Vec().Divide(s.Factor)))
	return d * s.Factor, m
}

// Rotated rotates its child about an axis through the origin
type Rotated struct {
	Child SDF
	Angle float64       // Radians
	Axis  core.UnitVec3 // Rotation axis
	q     mgl64.Quat    // Rotation applied to the shape
}

// Rotate rotates a shape by angle radians about axis, counter-clockwise when
// looking down the axis toward the origin
func Rotate(child SDF, angle float64, axis core.Vec3) *Rotated {
	mustNotBeNil("Rotate", child)
	if axis.IsZero() {
		panic("sdf: zero rotation axis")
	}
	u := axis.Unit()
	return &Rotated{
		Child: child,
		Angle: angle,
		Axis:  u,
		q:     mgl64.QuatRotate(angle, toMgl(u.Vec())),
	}
}

// RotateDegrees is Rotate with the angle in degrees
func RotateDegrees(child SDF, degrees float64, axis core.Vec3) *Rotated {
	return Rotate(child, degrees*math.Pi/180, axis)
}

// ValueAt implements SDF. The query point is taken back into the child's
// frame with the inverse rotation, q* p q.
func (r *Rotated) ValueAt(p core.Point3) (float64, material.Index) {
	local := r.q.Conjugate().Rotate(toMgl(p.Vec()))
	return r.Child.ValueAt(core.NewPoint3(local[0], local[1], local[2]))
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
