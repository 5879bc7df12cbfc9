package sdf

import (
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/material"
)

// OpUnion is the result of Union
type OpUnion struct {
	A, B SDF
}

// Union joins two shapes. The closer surface wins, and so does its material.
func Union(a, b SDF) *OpUnion {
	mustNotBeNil("Union", a, b)
	return &OpUnion{A: a, B: b}
}

// UnionAll folds Union over one or more shapes, left to right
func UnionAll(first SDF, rest ...SDF) SDF {
	mustNotBeNil("UnionAll", first)
	acc := first
	for _, s := range rest {
		acc = Union(acc, s)
	}
	return acc
}

// ValueAt implements SDF
func (u *OpUnion) ValueAt(p core.Point3) (float64, material.Index) {
	da, ma := u.A.ValueAt(p)
	db, mb := u.B.ValueAt(p)
	if da < db {
		return da, ma
	}
	return db, mb
}

// OpIntersection is the result of Intersection
type OpIntersection struct {
	A, B SDF
}

// Intersection keeps the volume shared by both shapes. The limiting (farther)
// surface wins, and so does its material.
func Intersection(a, b SDF) *OpIntersection {
	mustNotBeNil("Intersection", a, b)
	return &OpIntersection{A: a, B: b}
}

// ValueAt implements SDF
func (i *OpIntersection) ValueAt(p core.Point3) (float64, material.Index) {
	da, ma := i.A.ValueAt(p)
	db, mb := i.B.ValueAt(p)
	if da > db {
		return da, ma
	}
	return db, mb
}

// OpDifference is the result of Difference
type OpDifference struct {
	A, B SDF
}

// Difference carves b out of a. Where the carved surface limits the shape, the
// distance is -b and the material is b's, so cuts can be colored separately.
func Difference(a, b SDF) *OpDifference {
	mustNotBeNil("Difference", a, b)
	return &OpDifference{A: a, B: b}
}

// ValueAt implements SDF
func (d *OpDifference) ValueAt(p core.Point3) (float64, material.Index) {
	da, ma := d.A.ValueAt(p)
	db, mb := d.B.ValueAt(p)
	if da > -db {
		return da, ma
	}
	return -db, mb
}
