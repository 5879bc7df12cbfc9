package lights

import (
	"math"

	"github.com/df07/go-raymarcher/pkg/core"
)

// DefaultShadowHardness gives a moderately soft penumbra
const DefaultShadowHardness = 16.0

// Ambient is a constant light added to every visible point
type Ambient struct {
	Color core.Color
}

// NewAmbient creates an ambient light
func NewAmbient(c core.Color) Ambient {
	return Ambient{Color: c}
}

// Point is an omnidirectional light at Location
type Point struct {
	Location       core.Point3
	Diffuse        core.Color
	Specular       core.Color
	Strength       float64
	ShadowHardness float64 // Higher is sharper
}

// NewPoint creates a point light with unit strength and the default shadow hardness
func NewPoint(location core.Point3, diffuse, specular core.Color) *Point {
	return &Point{
		Location:       location,
		Diffuse:        diffuse,
		Specular:       specular,
		Strength:       1,
		ShadowHardness: DefaultShadowHardness,
	}
}

func (p *Point) Type() LightType {
	return LightTypePoint
}

// Sample implements the Light interface
func (p *Point) Sample(point core.Point3) LightSample {
	toLight := p.Location.Subtract(point)
	return LightSample{
		Direction:      toLight.Unit(),
		Distance:       toLight.Length(),
		Diffuse:        p.Diffuse,
		Specular:       p.Specular,
		Strength:       p.Strength,
		ShadowHardness: p.ShadowHardness,
	}
}

// Directional is a light infinitely far away along Direction, like the sun
type Directional struct {
	Direction      core.UnitVec3 // Direction the light travels
	Diffuse        core.Color
	Specular       core.Color
	Strength       float64
	ShadowHardness float64

	// MaxShadowDistance bounds the shadow march since the light itself is never reached
	MaxShadowDistance float64
}

// NewDirectional creates a directional light shining along direction
func NewDirectional(direction core.Vec3, diffuse, specular core.Color) *Directional {
	return &Directional{
		Direction:         direction.Unit(),
		Diffuse:           diffuse,
		Specular:          specular,
		Strength:          1,
		ShadowHardness:    DefaultShadowHardness,
		MaxShadowDistance: 100,
	}
}

func (d *Directional) Type() LightType {
	return LightTypeDirectional
}

// Sample implements the Light interface. The returned distance is the shadow
// march limit rather than a true distance.
func (d *Directional) Sample(core.Point3) LightSample {
	dist := d.MaxShadowDistance
	if dist <= 0 {
		dist = math.Inf(1)
	}
	return LightSample{
		Direction:      d.Direction.Negate(),
		Distance:       dist,
		Diffuse:        d.Diffuse,
		Specular:       d.Specular,
		Strength:       d.Strength,
		ShadowHardness: d.ShadowHardness,
	}
}
