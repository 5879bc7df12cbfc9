package scene

import (
	"math"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/geometry"
	"github.com/df07/go-raymarcher/pkg/lights"
	"github.com/df07/go-raymarcher/pkg/material"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewColor(r, g, blue)
}

// NewSphereGridScene creates a grid of glossy spheres on a mirror-like floor.
// Hue varies across x, chroma across z.
func NewSphereGridScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		LookFrom:    core.NewPoint3(0, 4, 9),
		LookAt:      core.NewPoint3(0, 0.3, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, err
	}

	materials := material.NewList()
	floorMaterial := materials.Add(material.NewSingleColor(core.NewColor(0.5, 0.5, 0.5), 20).WithReflectivity(0.3))
	floor := sdf.WithMaterial(sdf.NewFloor(0), floorMaterial)

	// Every sphere is a separate union node, so keep the grid modest
	gridSize := 6
	targetArea := 6.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := spacing * 0.35

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	var spheres []sdf.SDF
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0
			z := float64(j)*spacing - targetArea/2.0
			position := core.NewPoint3(x, sphereRadius, z)

			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			// Alternate between matte and glossy spheres
			shininess := 8.0 + 24.0*float64((i+j)%3)
			m := material.NewSingleColor(color, shininess)
			if (i+j)%2 == 0 {
				m = m.WithReflectivity(0.25)
			}
			spheres = append(spheres, sdf.WithMaterial(sdf.NewSphere(position, sphereRadius), materials.Add(m)))
		}
	}

	sun := lights.NewPoint(core.NewPoint3(6, 10, 6), core.NewColor(0.8, 0.8, 0.75), core.NewColor(0.6, 0.6, 0.6))
	sun.ShadowHardness = 8
	fill := lights.NewPoint(core.NewPoint3(-6, 4, 8), core.NewColor(0.2, 0.2, 0.3), core.NewColor(0.1, 0.1, 0.1))

	return &Scene{
		Camera:     camera,
		SDF:        sdf.UnionAll(floor, spheres...),
		Materials:  materials,
		Ambient:    lights.NewAmbient(core.NewColor(0.15, 0.15, 0.18)),
		Lights:     []lights.Light{sun, fill},
		Background: SkyGradient(),
	}, nil
}
