package material

import (
	"github.com/df07/go-raymarcher/pkg/core"
)

// Material describes the Phong reflectances of a surface
type Material struct {
	Ambient      core.Color // Reflectance of the ambient light
	Diffuse      core.Color // Lambertian reflectance
	Specular     core.Color // Highlight reflectance
	Shininess    float64    // Specular exponent
	Reflectivity float64    // Fraction of mirror reflection added, in [0,1]
}

// NewSingleColor creates a material using one color for every term
func NewSingleColor(c core.Color, shininess float64) Material {
	return Material{
		Ambient:   c,
		Diffuse:   c,
		Specular:  c,
		Shininess: shininess,
	}
}

// WithReflectivity returns a copy of m with the given reflectivity, clamped to [0,1]
func (m Material) WithReflectivity(r float64) Material {
	m.Reflectivity = max(0, min(1, r))
	return m
}

// IsReflective reports whether the material spawns reflection rays
func (m Material) IsReflective() bool {
	return m.Reflectivity > 0
}

// Default returns the loud magenta material used for surfaces whose material
// tag is missing or does not resolve. Seeing it in a render means the scene
// was built wrong.
func Default() Material {
	return Material{
		Ambient:   core.Magenta(),
		Diffuse:   core.Magenta(),
		Specular:  core.Magenta(),
		Shininess: 1,
	}
}
