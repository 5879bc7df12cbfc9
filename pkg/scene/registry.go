package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-raymarcher/pkg/geometry"
)

// ErrUnknownScene is returned when no built-in scene has the requested name
var ErrUnknownScene = errors.New("unknown scene")

// Builder constructs a built-in scene, optionally overriding its camera
type Builder func(cameraOverrides ...geometry.CameraConfig) (*Scene, error)

type builtin struct {
	displayName string
	description string
	build       Builder
}

var builtins = map[string]builtin{
	"default": {
		displayName: "Default Scene",
		description: "Red cube and rippled sphere on a rolling floor, lit by three lights",
		build:       NewDefaultScene,
	},
	"sphere-grid": {
		displayName: "Sphere Grid",
		description: "6x6 grid of colored spheres over a reflective floor",
		build:       NewSphereGridScene,
	},
	"csg": {
		displayName: "CSG",
		description: "Cube and sphere intersection drilled by three bars",
		build:       NewCSGScene,
	},
	"cornell-box": {
		displayName: "Cornell Box",
		description: "Cornell box with a turned box and a mirror sphere",
		build:       NewCornellScene,
	},
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the named built-in scene
func Create(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	s, err := b.build(cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene %q: %w", name, err)
	}
	return s, nil
}
