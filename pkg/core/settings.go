package core

import (
	"errors"
	"fmt"
)

// ErrInvalidSettings is wrapped by every validation failure in this file
var ErrInvalidSettings = errors.New("invalid render settings")

// MaterialOverride replaces material shading with a debug visualization
type MaterialOverride int

const (
	// OverrideNone shades surfaces with their materials
	OverrideNone MaterialOverride = iota
	// OverrideNormal colors surfaces by their normal, (n + 1) / 2
	OverrideNormal
)

// String returns the flag spelling of the override
func (m MaterialOverride) String() string {
	switch m {
	case OverrideNormal:
		return "normal"
	default:
		return "none"
	}
}

// ParseMaterialOverride parses the flag spelling of an override
func ParseMaterialOverride(s string) (MaterialOverride, error) {
	switch s {
	case "", "none":
		return OverrideNone, nil
	case "normal", "normals":
		return OverrideNormal, nil
	default:
		return OverrideNone, fmt.Errorf("%w: unknown material override %q", ErrInvalidSettings, s)
	}
}

// RenderSettings contains the numeric knobs of the ray marcher
type RenderSettings struct {
	TMin               float64 // Distance along a ray where marching starts
	TMax               float64 // Distance beyond which a ray counts as a miss
	Epsilon            float64 // Surface hit threshold
	MaxMarchingSteps   int     // SDF evaluations allowed per ray before giving up
	MaxLightRecursions int     // Reflection bounce cap
	NormalEpsilon      float64 // Central difference offset for normal estimation
	ShadowCorrection   float64 // Shadow target shrink factor, target * (1 - ShadowCorrection*Epsilon)
	MaterialOverride   MaterialOverride
}

// DefaultRenderSettings returns sensible default values
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		TMin:               0.001,
		TMax:               1000.0,
		Epsilon:            1e-5,
		MaxMarchingSteps:   1000,
		MaxLightRecursions: 3,
		NormalEpsilon:      1e-5,
		ShadowCorrection:   3.0,
		MaterialOverride:   OverrideNone,
	}
}

// Validate checks that the settings describe a terminating march
func (s RenderSettings) Validate() error {
	if s.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalidSettings, s.Epsilon)
	}
	if s.TMin < 0 {
		return fmt.Errorf("%w: t_min must not be negative, got %g", ErrInvalidSettings, s.TMin)
	}
	if s.TMax <= s.TMin {
		return fmt.Errorf("%w: t_max (%g) must exceed t_min (%g)", ErrInvalidSettings, s.TMax, s.TMin)
	}
	if s.MaxMarchingSteps <= 0 {
		return fmt.Errorf("%w: max marching steps must be positive, got %d", ErrInvalidSettings, s.MaxMarchingSteps)
	}
	if s.MaxLightRecursions < 0 {
		return fmt.Errorf("%w: max light recursions must not be negative, got %d", ErrInvalidSettings, s.MaxLightRecursions)
	}
	if s.NormalEpsilon <= 0 {
		return fmt.Errorf("%w: normal epsilon must be positive, got %g", ErrInvalidSettings, s.NormalEpsilon)
	}
	if s.ShadowCorrection < 0 {
		return fmt.Errorf("%w: shadow correction must not be negative, got %g", ErrInvalidSettings, s.ShadowCorrection)
	}
	return nil
}

// ImageSettings holds the output resolution
type ImageSettings struct {
	Width  int
	Height int
}

// AspectRatio returns width / height
func (s ImageSettings) AspectRatio() float64 {
	return float64(s.Width) / float64(s.Height)
}

// Config bundles everything a render call needs besides the scene
type Config struct {
	Image  ImageSettings
	Render RenderSettings
}

// NewConfig creates a config with default render settings
func NewConfig(width, height int) Config {
	return Config{
		Image:  ImageSettings{Width: width, Height: height},
		Render: DefaultRenderSettings(),
	}
}

// Validate checks the image size and render settings
func (c Config) Validate() error {
	if c.Image.Width <= 0 || c.Image.Height <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidSettings, c.Image.Width, c.Image.Height)
	}
	return c.Render.Validate()
}
