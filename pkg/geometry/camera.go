package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-raymarcher/pkg/core"
)

// ErrDegenerateCamera is returned when the camera parameters do not span a viewport
var ErrDegenerateCamera = errors.New("degenerate camera")

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	LookFrom    core.Point3 // Camera position
	LookAt      core.Point3 // Point the camera looks at
	Up          core.Vec3   // Up direction, must not be parallel to the view direction
	VFov        float64     // Vertical field of view in degrees
	AspectRatio float64     // Width / height
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
	config          CameraConfig
}

// NewCamera creates a camera from the given configuration. The viewport sits
// one unit in front of LookFrom.
func NewCamera(config CameraConfig) (*Camera, error) {
	if !(config.VFov > 0 && config.VFov < 180) {
		return nil, fmt.Errorf("%w: vertical fov %v outside (0, 180)", ErrDegenerateCamera, config.VFov)
	}
	if !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0) {
		return nil, fmt.Errorf("%w: aspect ratio %v", ErrDegenerateCamera, config.AspectRatio)
	}

	view := config.LookFrom.Subtract(config.LookAt)
	if view.IsZero() {
		return nil, fmt.Errorf("%w: look-from equals look-at", ErrDegenerateCamera)
	}
	side := config.Up.Cross(view)
	if side.Length() < 1e-12*config.Up.Length()*view.Length() || config.Up.IsZero() {
		return nil, fmt.Errorf("%w: up %v is parallel to the view direction", ErrDegenerateCamera, config.Up)
	}

	theta := config.VFov * math.Pi / 180
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h
	viewportWidth := config.AspectRatio * viewportHeight

	// Orthonormal basis, w points backwards out of the screen
	w := view.Unit()
	u := side.Unit()
	v := w.Vec().Cross(u.Vec()).Unit()

	horizontal := u.Vec().Multiply(viewportWidth)
	vertical := v.Vec().Multiply(viewportHeight)
	lowerLeftCorner := config.LookFrom.
		Offset(horizontal.Divide(2)).
		Offset(vertical.Divide(2)).
		Offset(w.Vec())

	return &Camera{
		origin:          config.LookFrom,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		config:          config,
	}, nil
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1.
// (0, 0) is the lower left corner of the viewport.
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRayUnnormalized(c.origin, direction)
}

// Origin returns the camera position
func (c *Camera) Origin() core.Point3 {
	return c.origin
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.LookFrom != (core.Point3{}) {
		result.LookFrom = override.LookFrom
	}
	if override.LookAt != (core.Point3{}) {
		result.LookAt = override.LookAt
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	return result
}
