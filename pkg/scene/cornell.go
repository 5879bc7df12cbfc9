package scene

import (
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/geometry"
	"github.com/df07/go-raymarcher/pkg/lights"
	"github.com/df07/go-raymarcher/pkg/material"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

// NewCornellScene creates a Cornell box built from thin slabs, lit by a point
// light under the ceiling. The room spans x and z in [-1,1] and y in [0,2]
// with the front left open.
func NewCornellScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		LookFrom:    core.NewPoint3(0, 1, 3.8), // Outside the box looking in
		LookAt:      core.NewPoint3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 1, // Square aspect ratio for Cornell box
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
	white := materials.Add(material.NewSingleColor(core.NewColor(0.73, 0.73, 0.73), 4))
	red := materials.Add(material.NewSingleColor(core.NewColor(0.65, 0.05, 0.05), 4))
	green := materials.Add(material.NewSingleColor(core.NewColor(0.12, 0.45, 0.15), 4))
	mirror := materials.Add(material.NewSingleColor(core.NewColor(0.8, 0.85, 0.88), 64).WithReflectivity(0.6))

	const thickness = 0.05
	slab := func(center core.Point3, halfExtents core.Vec3, m material.Index) sdf.SDF {
		return sdf.WithMaterial(sdf.NewBox(center, halfExtents), m)
	}

	walls := sdf.UnionAll(
		slab(core.NewPoint3(0, -thickness, 0), core.NewVec3(1+2*thickness, thickness, 1), white), // floor
		slab(core.NewPoint3(0, 2+thickness, 0), core.NewVec3(1+2*thickness, thickness, 1), white), // ceiling
		slab(core.NewPoint3(0, 1, -1-thickness), core.NewVec3(1+2*thickness, 1+2*thickness, thickness), white),
		slab(core.NewPoint3(-1-thickness, 1, 0), core.NewVec3(thickness, 1+2*thickness, 1), red),
		slab(core.NewPoint3(1+thickness, 1, 0), core.NewVec3(thickness, 1+2*thickness, 1), green),
	)

	// Tall box turned toward the camera, standing on the floor
	tallBox := sdf.Translate(
		sdf.RotateDegrees(sdf.WithMaterial(sdf.NewBox(core.Origin, core.NewVec3(0.3, 0.6, 0.3)), white), 18, core.NewVec3(0, 1, 0)),
		core.NewVec3(-0.35, 0.6, -0.3),
	)
	ball := sdf.WithMaterial(sdf.NewSphere(core.NewPoint3(0.4, 0.35, 0.3), 0.35), mirror)

	light := lights.NewPoint(core.NewPoint3(0, 1.85, 0), core.NewColor(0.9, 0.9, 0.85), core.NewColor(0.5, 0.5, 0.5))
	light.ShadowHardness = 12

	return &Scene{
		Camera:     camera,
		SDF:        sdf.UnionAll(walls, tallBox, ball),
		Materials:  materials,
		Ambient:    lights.NewAmbient(core.NewColor(0.12, 0.12, 0.12)),
		Lights:     []lights.Light{light},
		Background: Constant{Color: core.Black()},
	}, nil
}
