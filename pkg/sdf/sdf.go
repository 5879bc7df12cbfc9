// Package sdf implements composable signed distance fields.
//
// Every node answers ValueAt with the signed distance to its surface (negative
// inside, positive outside) and an optional material tag. Distances must be
// Lipschitz-1, |ValueAt(p) - ValueAt(q)| <= |p - q|, otherwise sphere tracing
// can step through surfaces. All nodes here preserve that bound; Arbitrary
// functions are the caller's responsibility.
package sdf

import (
	"fmt"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/material"
)

// DefaultNormalEpsilon is the central difference offset used when none is configured
const DefaultNormalEpsilon = 1e-5

// SDF is a distance field node
type SDF interface {
	ValueAt(p core.Point3) (float64, material.Index)
}

// NormalEstimator is implemented by nodes that know their gradient better than
// a numerical estimate
type NormalEstimator interface {
	EstimateNormal(p core.Point3, eps float64) core.UnitVec3
}

// Func adapts a plain function to the SDF interface
type Func func(p core.Point3) (float64, material.Index)

// ValueAt implements SDF
func (f Func) ValueAt(p core.Point3) (float64, material.Index) {
	return f(p)
}

// Distance returns only the distance component of s at p
func Distance(s SDF, p core.Point3) float64 {
	d, _ := s.ValueAt(p)
	return d
}

// EstimateNormal returns the surface normal of s at p. Only meaningful close
// to the surface, i.e. once |ValueAt(p)| is below the hit epsilon.
func EstimateNormal(s SDF, p core.Point3, eps float64) core.UnitVec3 {
	if ne, ok := s.(NormalEstimator); ok {
		return ne.EstimateNormal(p, eps)
	}
	return CentralDifferenceNormal(s, p, eps)
}

// CentralDifferenceNormal is the 6-point numerical gradient of s at p
func CentralDifferenceNormal(s SDF, p core.Point3, eps float64) core.UnitVec3 {
	if eps <= 0 {
		eps = DefaultNormalEpsilon
	}
	dx := Distance(s, core.NewPoint3(p.X+eps, p.Y, p.Z)) - Distance(s, core.NewPoint3(p.X-eps, p.Y, p.Z))
	dy := Distance(s, core.NewPoint3(p.X, p.Y+eps, p.Z)) - Distance(s, core.NewPoint3(p.X, p.Y-eps, p.Z))
	dz := Distance(s, core.NewPoint3(p.X, p.Y, p.Z+eps)) - Distance(s, core.NewPoint3(p.X, p.Y, p.Z-eps))
	return core.NewVec3(dx, dy, dz).Unit()
}

func mustNotBeNil(op string, nodes ...SDF) {
	for i, n := range nodes {
		if n == nil {
			panic(fmt.Sprintf("sdf: nil arg[%d] to %s", i, op))
		}
	}
}
