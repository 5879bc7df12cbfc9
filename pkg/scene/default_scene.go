package scene

import (
	"math"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/geometry"
	"github.com/df07/go-raymarcher/pkg/lights"
	"github.com/df07/go-raymarcher/pkg/material"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

// wavyFloor is the surface y = sin(x) + sin(z). The gradient of that height
// field reaches sqrt(3), so the distance is halved to keep the march from
// tunnelling through crests at the cost of more steps.
func wavyFloor() sdf.Func {
	return sdf.Arbitrary(func(p core.Point3) (float64, material.Index) {
		return (p.Y - (math.Sin(p.X) + math.Sin(p.Z))) / 2, material.NoMaterial
	})
}

// NewDefaultScene creates a red cube under a white sphere with a rippled cap,
// sitting in a gently rolling floor bounded by a large box
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		LookFrom:    core.NewPoint3(0, 1.5, 5),
		LookAt:      core.NewPoint3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        60,
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

	// Create materials
	materials := material.NewList()
	white := materials.Add(material.NewSingleColor(core.NewColor(0.9, 0.9, 0.9), 10))
	red := materials.Add(material.NewSingleColor(core.NewColor(0.9, 0.1, 0.1), 5))
	ground := materials.Add(material.NewSingleColor(core.NewColor(0.4, 0.5, 0.4), 2))

	// Stretch the waves out so the floor rolls gently under the objects
	rolling := sdf.ScaleUniform(wavyFloor(), 0.1)
	floor := sdf.WithMaterial(
		sdf.Intersection(rolling, sdf.ScaleUniform(sdf.NewUnitCube(), 50)),
		ground,
	)

	// A sphere whose upper half is cut by a tighter copy of the waves
	cappedSphere := sdf.Translate(
		sdf.Intersection(
			sdf.WithMaterial(sdf.NewUnitSphere(), white),
			sdf.Translate(sdf.ScaleUniform(rolling, 2), core.NewVec3(0, 0.5, 0)),
		),
		core.NewVec3(0, 1.5, 0),
	)

	root := sdf.UnionAll(
		sdf.WithMaterial(sdf.NewUnitCube(), red),
		cappedSphere,
		floor,
	)

	sceneLights := []lights.Light{
		lights.NewPoint(core.NewPoint3(0, 2, 10), core.NewColor(0.4, 0.4, 0.4), core.NewColor(0.4, 0.4, 0.4)),
		lights.NewPoint(core.NewPoint3(0, 5, 0), core.NewColor(0.4, 0.4, 0.4), core.NewColor(0.4, 0.9, 0.4)),
		lights.NewPoint(core.NewPoint3(3, 2, 0), core.NewColor(0.1, 0.1, 0.9), core.NewColor(0.1, 0.1, 0.1)),
	}

	return &Scene{
		Camera:     camera,
		SDF:        root,
		Materials:  materials,
		Ambient:    lights.NewAmbient(core.NewColor(0.5, 0.5, 0.5)),
		Lights:     sceneLights,
		Background: SkyGradient(),
	}, nil
}
