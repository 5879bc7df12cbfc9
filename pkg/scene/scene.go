package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/geometry"
	"github.com/df07/go-raymarcher/pkg/lights"
	"github.com/df07/go-raymarcher/pkg/material"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

// Scene contains all the elements needed for rendering. It is read-only once
// built, so one scene may be shared by concurrent renders.
type Scene struct {
	Camera     *geometry.Camera
	SDF        sdf.SDF        // Root of the distance field
	Materials  *material.List // Materials referenced by the SDF's tags
	Ambient    lights.Ambient
	Lights     []lights.Light
	Background Background
}

// Validate checks that the scene has everything a render needs
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return errors.New("scene has no camera")
	}
	if s.SDF == nil {
		return errors.New("scene has no distance field")
	}
	if s.Background == nil {
		return errors.New("scene has no background")
	}
	for i, light := range s.Lights {
		if light == nil {
			return fmt.Errorf("scene light %d is nil", i)
		}
	}
	return nil
}

// Background colors rays that hit nothing
type Background interface {
	ColorAt(ray core.Ray) core.Color
}

// VerticalGradient blends From (looking straight down) into To (looking straight up)
type VerticalGradient struct {
	From core.Color
	To   core.Color
}

// ColorAt implements Background
func (g VerticalGradient) ColorAt(ray core.Ray) core.Color {
	t := 0.5 * (ray.Direction.Vec().Y + 1.0) // Map Y from [-1,1] to [0,1]
	return g.From.Multiply(1.0 - t).Add(g.To.Multiply(t))
}

// Constant is a flat background
type Constant struct {
	Color core.Color
}

// ColorAt implements Background
func (c Constant) ColorAt(core.Ray) core.Color {
	return c.Color
}

// SkyGradient is the white-to-blue sky most scenes use
func SkyGradient() VerticalGradient {
	return VerticalGradient{From: core.NewColor(1, 1, 1), To: core.NewColor(0.5, 0.7, 1.0)}
}
