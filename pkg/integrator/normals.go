package integrator

import (
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/march"
	"github.com/df07/go-raymarcher/pkg/scene"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

// Normals is a debug integrator that colors each surface by its normal,
// mapping components from [-1,1] to [0,1]. Materials and lights are ignored.
type Normals struct {
	scene    *scene.Scene
	settings core.RenderSettings
}

// NewNormals creates a normal-visualizing integrator
func NewNormals(s *scene.Scene, settings core.RenderSettings) *Normals {
	return &Normals{scene: s, settings: settings}
}

// RayColor implements Integrator. depth is ignored, nothing reflects.
func (nm *Normals) RayColor(ray core.Ray, depth int) core.Color {
	hit, ok := march.FindTarget(nm.scene.SDF, ray, nm.settings)
	if !ok {
		return nm.scene.Background.ColorAt(ray)
	}
	n := sdf.EstimateNormal(nm.scene.SDF, hit.Point, nm.settings.NormalEpsilon)
	return core.White().Add(core.ColorFromVec3(n.Vec())).Multiply(0.5)
}
