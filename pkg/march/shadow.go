package march

import (
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

// SoftShadow returns how visible a target at distance target along ray is,
// from 0 (fully occluded) to 1 (fully lit). It tracks the closest near miss
// min(hardness * d / depth) along the way, which darkens points whose shadow
// ray grazes an occluder and so produces a penumbra. Larger hardness values
// give sharper shadow edges.
//
// The march stops short of the target by a factor of ShadowCorrection*Epsilon
// so the light's own surroundings do not count as occluders. Any step closer
// than Epsilon to a surface before that point is a full occlusion. Targets
// past TMax, such as lights at infinity, are marched only as far as TMax.
func SoftShadow(s sdf.SDF, ray core.Ray, target, hardness float64, settings core.RenderSettings) float64 {
	corrected := min(target, settings.TMax) * (1 - settings.ShadowCorrection*settings.Epsilon)
	visibility := 1.0
	n := 0
	for step := range Steps(s, ray, settings.TMin) {
		n++
		if step.Depth >= corrected || n > settings.MaxMarchingSteps {
			break
		}
		if step.Distance < settings.Epsilon {
			return 0
		}
		if step.Depth > 0 {
			visibility = min(visibility, hardness*step.Distance/step.Depth)
		}
	}
	return max(0, min(1, visibility))
}
