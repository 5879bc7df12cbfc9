package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-raymarcher/pkg/config"
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		opts        options
		expectError bool
	}{
		{"default scene", options{Scene: "default"}, false},
		{"sphere grid", options{Scene: "sphere-grid"}, false},
		{"csg scene", options{Scene: "csg"}, false},
		{"cornell box", options{Scene: "cornell-box"}, false},
		{"scene file", options{File: "scenes/snowman.json"}, false},

		{"unknown scene", options{Scene: "nonexistent"}, true},
		{"empty scene name", options{Scene: ""}, true},
		{"missing scene file", options{File: "scenes/nonexistent.json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Width, tt.opts.Height = 40, 20
			sceneObj, err := createScene(tt.opts)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %+v, but got none", tt.opts)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %+v: %v", tt.opts, err)
			}
			if err := sceneObj.Validate(); err != nil {
				t.Errorf("Scene is not renderable: %v", err)
			}
		})
	}
}

func TestSceneLabel(t *testing.T) {
	tests := []struct {
		opts     options
		expected string
	}{
		{options{Scene: "csg"}, "csg"},
		{options{Scene: "csg", File: "scenes/snowman.json"}, "snowman"},
		{options{File: "/tmp/my.scene.json"}, "my.scene"},
	}
	for _, tt := range tests {
		if got := sceneLabel(tt.opts); got != tt.expected {
			t.Errorf("sceneLabel(%+v) = %q, expected %q", tt.opts, got, tt.expected)
		}
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	got := outputPath("output", "default", "ppm.zst", now)
	expected := filepath.Join("output", "default", "render_20240305_140709.ppm.zst")
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
	if got := outputPath("out", "csg", ".png", now); !strings.HasSuffix(got, "render_20240305_140709.png") {
		t.Errorf("Expected leading dot to be dropped, got %q", got)
	}
}

func TestRenderFrame_SequentialMatchesParallel(t *testing.T) {
	sceneObj, err := scene.Create("default")
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	cfg := core.NewConfig(24, 12)

	sequential, err := renderFrame(context.Background(), cfg, sceneObj, 1, core.NopLogger{})
	if err != nil {
		t.Fatalf("Sequential render failed: %v", err)
	}
	parallel, err := renderFrame(context.Background(), cfg, sceneObj, 3, core.NopLogger{})
	if err != nil {
		t.Fatalf("Parallel render failed: %v", err)
	}

	if len(sequential) != 24*12 || len(parallel) != len(sequential) {
		t.Fatalf("Expected %d pixels, got %d and %d", 24*12, len(sequential), len(parallel))
	}
	for i := range sequential {
		if sequential[i] != parallel[i] {
			t.Fatalf("Pixel %d differs: %v vs %v", i, sequential[i], parallel[i])
		}
	}
}

func TestRun_WritesImage(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{OutputDir: dir}

	tests := []struct {
		name   string
		opts   options
		header string
	}{
		{"default output path", options{Scene: "csg", Format: "ppm", Workers: 2}, "P3\n16 8\n255\n"},
		{"explicit output", options{Scene: "default", Output: filepath.Join(dir, "frame.ppm"), Workers: 1}, "P3\n16 8\n255\n"},
		{"normals", options{File: "scenes/arches.json", Output: filepath.Join(dir, "arches.png"), Normals: true}, "\x89PNG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Width, tt.opts.Height = 16, 8
			if err := run(context.Background(), tt.opts, cfg, nil, core.NopLogger{}); err != nil {
				t.Fatalf("run failed: %v", err)
			}

			path := tt.opts.Output
			if path == "" {
				matches, _ := filepath.Glob(filepath.Join(dir, sceneLabel(tt.opts), "render_*."+tt.opts.Format))
				if len(matches) != 1 {
					t.Fatalf("Expected one rendered file, got %v", matches)
				}
				path = matches[0]
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read output: %v", err)
			}
			if !strings.HasPrefix(string(data), tt.header) {
				t.Errorf("Expected output to start with %q, got %q", tt.header, string(data[:min(len(data), 16)]))
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	cfg := &config.Config{OutputDir: t.TempDir()}
	tests := []struct {
		name string
		opts options
	}{
		{"zero width", options{Scene: "default", Width: 0, Height: 8, Format: "ppm"}},
		{"unknown scene", options{Scene: "nope", Width: 8, Height: 8, Format: "ppm"}},
		{"unsupported format", options{Scene: "default", Width: 8, Height: 8, Format: "bmp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(context.Background(), tt.opts, cfg, nil, core.NopLogger{}); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
