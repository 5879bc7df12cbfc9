package integrator

import (
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/scene"
)

// Integrator computes the color seen along a ray
type Integrator interface {
	// RayColor shades ray. depth is the number of reflection bounces still
	// allowed below this ray.
	RayColor(ray core.Ray, depth int) core.Color
}

// New returns the integrator selected by the settings' material override
func New(s *scene.Scene, settings core.RenderSettings) Integrator {
	switch settings.MaterialOverride {
	case core.OverrideNormal:
		return NewNormals(s, settings)
	default:
		return NewPhong(s, settings)
	}
}
