package scene

import (
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/geometry"
	"github.com/df07/go-raymarcher/pkg/lights"
	"github.com/df07/go-raymarcher/pkg/material"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

// NewCSGScene creates the classic constructive solid geometry sample: the
// intersection of a cube and a sphere with three square bars drilled through
// it, tilted and scaled, standing over a reflective floor
func NewCSGScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		LookFrom:    core.NewPoint3(3.5, 3, 5),
		LookAt:      core.NewPoint3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        35,
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
	shell := materials.Add(material.NewSingleColor(core.NewColor(0.85, 0.55, 0.15), 32))
	drilled := materials.Add(material.NewSingleColor(core.NewColor(0.2, 0.35, 0.8), 8))
	floorMaterial := materials.Add(material.Material{
		Ambient:      core.NewColor(0.3, 0.3, 0.3),
		Diffuse:      core.NewColor(0.5, 0.5, 0.5),
		Specular:     core.NewColor(0.2, 0.2, 0.2),
		Shininess:    16,
		Reflectivity: 0.4,
	})

	rounded := sdf.Intersection(
		sdf.WithMaterial(sdf.NewUnitCube(), shell),
		sdf.WithMaterial(sdf.NewSphere(core.Origin, 1.35), shell),
	)

	// One bar along x, turned onto the other two axes
	bar := sdf.WithMaterial(sdf.NewBox(core.Origin, core.NewVec3(2, 0.5, 0.5)), drilled)
	bars := sdf.UnionAll(
		bar,
		sdf.RotateDegrees(bar, 90, core.NewVec3(0, 0, 1)),
		sdf.RotateDegrees(bar, 90, core.NewVec3(0, 1, 0)),
	)

	var piece sdf.SDF = sdf.Difference(rounded, bars)
	piece = sdf.Translate(
		sdf.ScaleUniform(sdf.RotateDegrees(piece, 30, core.NewVec3(1, 1, 0)), 0.8),
		core.NewVec3(0, 1.2, 0),
	)

	floor := sdf.WithMaterial(sdf.NewFloor(0), floorMaterial)

	key := lights.NewPoint(core.NewPoint3(4, 6, 3), core.NewColor(0.7, 0.7, 0.7), core.NewColor(0.8, 0.8, 0.8))
	rim := lights.NewPoint(core.NewPoint3(-4, 3, -3), core.NewColor(0.2, 0.25, 0.4), core.NewColor(0.3, 0.3, 0.3))
	rim.ShadowHardness = 4

	return &Scene{
		Camera:     camera,
		SDF:        sdf.Union(piece, floor),
		Materials:  materials,
		Ambient:    lights.NewAmbient(core.NewColor(0.3, 0.3, 0.3)),
		Lights:     []lights.Light{key, rim},
		Background: SkyGradient(),
	}, nil
}
