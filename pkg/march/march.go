// Package march walks rays through signed distance fields.
package march

import (
	"iter"
	"math"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/material"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

// Step is one SDF evaluation along a ray
type Step struct {
	Point    core.Point3    // Where the field was evaluated
	Distance float64        // Signed distance at Point
	Material material.Index // Material tag at Point
	Depth    float64        // Distance of Point along the ray
}

// Steps returns the unbounded sequence of march steps along ray, starting at
// depth tMin. Each step advances by the previous raw signed distance, so the
// march slows down as it grazes a surface. The sequence never ends by itself;
// callers stop ranging once they have what they need, and nothing past the
// last consumed step is evaluated.
func Steps(s sdf.SDF, ray core.Ray, tMin float64) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		depth := tMin
		for {
			p := ray.At(depth)
			d, m := s.ValueAt(p)
			if !yield(Step{Point: p, Distance: d, Material: m, Depth: depth}) {
				return
			}
			depth += d
		}
	}
}

// Hit is the surface point a ray marched into
type Hit struct {
	Point    core.Point3
	Material material.Index
	Depth    float64
	Steps    int // SDF evaluations spent
}

// FindTarget marches ray until |distance| < Epsilon. It reports false when the
// march passes TMax or spends MaxMarchingSteps evaluations first.
func FindTarget(s sdf.SDF, ray core.Ray, settings core.RenderSettings) (Hit, bool) {
	n := 0
	for step := range Steps(s, ray, settings.TMin) {
		n++
		if step.Depth >= settings.TMax || n > settings.MaxMarchingSteps {
			return Hit{Steps: n}, false
		}
		if math.Abs(step.Distance) < settings.Epsilon {
			return Hit{Point: step.Point, Material: step.Material, Depth: step.Depth, Steps: n}, true
		}
	}
	return Hit{Steps: n}, false
}
