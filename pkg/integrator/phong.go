package integrator

import (
	"math"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/march"
	"github.com/df07/go-raymarcher/pkg/material"
	"github.com/df07/go-raymarcher/pkg/scene"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

// Phong shades surfaces with ambient, diffuse and specular terms per light,
// attenuated by soft shadows, plus mirror reflection for reflective materials
type Phong struct {
	scene    *scene.Scene
	settings core.RenderSettings
}

// NewPhong creates a Phong integrator for a scene
func NewPhong(s *scene.Scene, settings core.RenderSettings) *Phong {
	return &Phong{scene: s, settings: settings}
}

// RayColor implements Integrator
func (ph *Phong) RayColor(ray core.Ray, depth int) core.Color {
	hit, ok := march.FindTarget(ph.scene.SDF, ray, ph.settings)
	if !ok {
		return ph.scene.Background.ColorAt(ray)
	}

	mat := ph.scene.Materials.Resolve(hit.Material)
	normal := sdf.EstimateNormal(ph.scene.SDF, hit.Point, ph.settings.NormalEpsilon)
	color := ph.Shade(hit.Point, normal, ray.Origin.Subtract(hit.Point).Unit(), mat)

	if mat.IsReflective() && depth > 0 {
		reflected := core.NewRay(hit.Point, ray.Direction.Reflect(normal))
		color = color.Add(ph.RayColor(reflected, depth-1).Multiply(mat.Reflectivity))
	}

	return color
}

// Shade evaluates the local Phong model at p. n is the surface normal and v
// the unit vector from p toward the viewer.
func (ph *Phong) Shade(p core.Point3, n, v core.UnitVec3, mat material.Material) core.Color {
	color := ph.scene.Ambient.Color.MultiplyColor(mat.Ambient)

	for _, light := range ph.scene.Lights {
		sample := light.Sample(p)
		l := sample.Direction
		lDotN := l.Dot(n)
		if lDotN <= 0 {
			continue
		}

		diffuse := mat.Diffuse.MultiplyColor(sample.Diffuse).Multiply(lDotN)

		var specular core.Color
		r := n.Vec().Multiply(2 * lDotN).Subtract(l.Vec())
		if rDotV := r.Dot(v.Vec()); rDotV > 0 {
			specular = mat.Specular.MultiplyColor(sample.Specular).Multiply(math.Pow(rDotV, mat.Shininess))
		}

		shadowRay := core.NewRay(p, l)
		visibility := march.SoftShadow(ph.scene.SDF, shadowRay, sample.Distance, sample.ShadowHardness, ph.settings)

		color = color.Add(diffuse.Add(specular).Multiply(sample.Strength * visibility))
	}

	return color
}
