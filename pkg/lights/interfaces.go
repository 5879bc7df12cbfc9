package lights

import "github.com/df07/go-raymarcher/pkg/core"

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// Light is a source the Phong model can shade against
type Light interface {
	Type() LightType

	// Sample returns the light as seen from point, with the direction FROM
	// the shading point TO the light
	Sample(point core.Point3) LightSample
}

// LightSample contains what shading needs to know about one light at one point
type LightSample struct {
	Direction      core.UnitVec3 // Direction from shading point to light
	Distance       float64       // Distance to the light, the shadow march limit for directional lights
	Diffuse        core.Color
	Specular       core.Color
	Strength       float64
	ShadowHardness float64
}
