package sdf

import (
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/material"
)

// Tagged attaches a material to its child's surface
type Tagged struct {
	Child    SDF
	Material material.Index
}

// WithMaterial tags a shape with m, replacing whatever tag the child carries.
// The distance passes through unchanged.
func WithMaterial(child SDF, m material.Index) *Tagged {
	mustNotBeNil("WithMaterial", child)
	return &Tagged{Child: child, Material: m}
}

// ValueAt implements SDF
func (t *Tagged) ValueAt(p core.Point3) (float64, material.Index) {
	d, _ := t.Child.ValueAt(p)
	return d, t.Material
}

// EstimateNormal forwards to the child, tagging never changes the surface
func (t *Tagged) EstimateNormal(p core.Point3, eps float64) core.UnitVec3 {
	return EstimateNormal(t.Child, p, eps)
}
