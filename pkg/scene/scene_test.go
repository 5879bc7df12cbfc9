package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/geometry"
	"github.com/df07/go-raymarcher/pkg/lights"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

func TestVerticalGradient(t *testing.T) {
	g := VerticalGradient{From: core.NewColor(1, 1, 1), To: core.NewColor(0, 0, 1)}

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Color
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewColor(0, 0, 1)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewColor(1, 1, 1)},
		{"horizon", core.NewVec3(1, 0, 0), core.NewColor(0.5, 0.5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.ColorAt(core.NewRay(core.Origin, tt.direction.Unit()))
			if math.Abs(got.R-tt.expected.R) > 1e-9 || math.Abs(got.G-tt.expected.G) > 1e-9 || math.Abs(got.B-tt.expected.B) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestConstantBackground(t *testing.T) {
	c := Constant{Color: core.NewColor(0.1, 0.2, 0.3)}
	if got := c.ColorAt(core.NewRay(core.Origin, core.NewVec3(0, 0, -1).Unit())); got != c.Color {
		t.Errorf("Expected %v, got %v", c.Color, got)
	}
}

func TestBuiltinScenes(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Create(name)
			if err != nil {
				t.Fatalf("Create(%q) error: %v", name, err)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Scene invalid: %v", err)
			}
			if s.Materials.Len() == 0 {
				t.Error("Expected scene to define materials")
			}
			if len(s.Lights) == 0 {
				t.Error("Expected scene to have lights")
			}

			// The camera should look at something, not into empty space
			origin := s.Camera.Origin()
			if d := sdf.Distance(s.SDF, origin); d <= 0 {
				t.Errorf("Expected camera outside all solids, distance %f", d)
			}
		})
	}
}

func TestCreate_CameraOverride(t *testing.T) {
	s, err := Create("default", geometry.CameraConfig{AspectRatio: 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	config := s.Camera.Config()
	if config.AspectRatio != 1 {
		t.Errorf("Expected aspect override 1, got %f", config.AspectRatio)
	}
	if config.VFov != 60 {
		t.Errorf("Expected default fov 60 to survive merge, got %f", config.VFov)
	}
}

func TestCreate_Errors(t *testing.T) {
	if _, err := Create("no-such-scene"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}

	degenerate := geometry.CameraConfig{Up: core.NewVec3(0, 0, 1), LookFrom: core.NewPoint3(0, 0, 5)}
	if _, err := Create("default", degenerate); !errors.Is(err, geometry.ErrDegenerateCamera) {
		t.Errorf("Expected ErrDegenerateCamera, got %v", err)
	}
}

func TestScene_Validate(t *testing.T) {
	valid, err := NewDefaultScene()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		modify func(s *Scene)
	}{
		{"no camera", func(s *Scene) { s.Camera = nil }},
		{"no sdf", func(s *Scene) { s.SDF = nil }},
		{"no background", func(s *Scene) { s.Background = nil }},
		{"nil light", func(s *Scene) { s.Lights = append(s.Lights, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := *valid
			s.Lights = append([]lights.Light{}, valid.Lights...)
			tt.modify(&s)
			if err := s.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
