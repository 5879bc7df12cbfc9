package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/df07/go-raymarcher/pkg/config"
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/geometry"
	"github.com/df07/go-raymarcher/pkg/loaders"
	"github.com/df07/go-raymarcher/pkg/output"
	"github.com/df07/go-raymarcher/pkg/publish"
	"github.com/df07/go-raymarcher/pkg/renderer"
	"github.com/df07/go-raymarcher/pkg/scene"
)

// options holds the parsed command line
type options struct {
	Scene   string
	File    string
	All     bool
	Width   int
	Height  int
	Workers int // 1 renders sequentially, 0 uses every CPU
	Output  string
	Format  string
	Normals bool
	Upload  bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Parse command line flags
	opts := options{}
	flag.StringVar(&opts.Scene, "scene", "default", "Built-in scene: "+strings.Join(scene.Names(), ", "))
	flag.StringVar(&opts.File, "file", "", "JSON scene file to render instead of a built-in scene")
	flag.BoolVar(&opts.All, "all", false, "Render every built-in scene")
	flag.IntVar(&opts.Width, "width", cfg.Width, "Image width in pixels")
	flag.IntVar(&opts.Height, "height", cfg.Height, "Image height in pixels")
	flag.IntVar(&opts.Workers, "workers", cfg.Workers, "Parallel workers (1 = sequential, 0 = one per CPU)")
	flag.StringVar(&opts.Output, "output", "", "Output file (default <output dir>/<scene>/render_<timestamp>.<format>)")
	flag.StringVar(&opts.Format, "format", "ppm", "Output format when -output is not set: ppm, ppm.zst, ppm.sz, png, jpg")
	flag.BoolVar(&opts.Normals, "normals", false, "Color surfaces by their normal instead of shading them")
	flag.BoolVar(&opts.Upload, "upload", false, "Upload the finished image to the configured S3 bucket")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("SDF Ray Marcher")
		fmt.Println("Usage: raymarcher [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	logger := core.NewDefaultLogger()

	var publisher *publish.S3Publisher
	if opts.Upload {
		publisher, err = publish.NewS3Publisher(cfg.S3, logger)
		if err != nil {
			fmt.Printf("Error configuring upload: %v\n", err)
			os.Exit(1)
		}
	}

	jobs := []string{opts.Scene}
	if opts.All {
		jobs = scene.Names()
	}
	if opts.File != "" {
		jobs = []string{""}
	}

	for _, name := range jobs {
		jobOpts := opts
		if name != "" {
			jobOpts.Scene = name
		}
		if opts.All {
			jobOpts.Output = ""
		}
		if err := run(context.Background(), jobOpts, cfg, publisher, logger); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// run renders one scene, writes it to disk and optionally uploads it
func run(ctx context.Context, opts options, cfg *config.Config, publisher *publish.S3Publisher, logger core.Logger) error {
	renderCfg := core.NewConfig(opts.Width, opts.Height)
	if opts.Normals {
		renderCfg.Render.MaterialOverride = core.OverrideNormal
	}
	if err := renderCfg.Validate(); err != nil {
		return err
	}

	label := sceneLabel(opts)
	sceneObj, err := createScene(opts)
	if err != nil {
		return err
	}

	path := opts.Output
	if path == "" {
		path = outputPath(cfg.OutputDir, label, opts.Format, time.Now())
	}
	format, err := output.FormatFromPath(path)
	if err != nil {
		return err
	}

	logger.Printf("Rendering %s at %dx%d...\n", label, opts.Width, opts.Height)
	startTime := time.Now()

	colors, err := renderFrame(ctx, renderCfg, sceneObj, opts.Workers, logger)
	if err != nil {
		return fmt.Errorf("render %s: %w", label, err)
	}
	if err := output.Save(path, opts.Width, opts.Height, colors); err != nil {
		return err
	}

	logger.Printf("Done! Took %.3f seconds.\n", time.Since(startTime).Seconds())
	logger.Printf("Render saved as %s\n", path)

	if publisher != nil {
		data, err := output.EncodeBytes(format, opts.Width, opts.Height, colors)
		if err != nil {
			return err
		}
		key, err := publisher.Publish(ctx, label+"/"+filepath.Base(path), data, format.ContentType())
		if err != nil {
			return err
		}
		logger.Printf("Uploaded to s3://%s/%s\n", cfg.S3.Bucket, key)
	}
	return nil
}

// createScene builds the built-in scene or loads the JSON file named by
// opts, with the camera matched to the image aspect ratio
func createScene(opts options) (*scene.Scene, error) {
	override := geometry.CameraConfig{AspectRatio: float64(opts.Width) / float64(opts.Height)}
	if opts.File != "" {
		sceneObj, _, err := loaders.LoadSceneFile(opts.File, override)
		return sceneObj, err
	}
	return scene.Create(opts.Scene, override)
}

// renderFrame renders sequentially through the lazy pixel sequence when a
// single worker is requested and through the worker pool otherwise
func renderFrame(ctx context.Context, cfg core.Config, s *scene.Scene, workers int, logger core.Logger) ([]core.Color, error) {
	if workers == 1 {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return slices.Collect(renderer.Render(cfg, s)), nil
	}

	parallel := renderer.DefaultParallelConfig()
	parallel.NumWorkers = workers
	colors, _, err := renderer.NewParallelRaymarcher(s, cfg, parallel, logger).RenderFrame(ctx, nil)
	return colors, err
}

// sceneLabel names the scene for output directories and upload keys
func sceneLabel(opts options) string {
	if opts.File != "" {
		base := filepath.Base(opts.File)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return opts.Scene
}

// outputPath returns <dir>/<scene>/render_<timestamp>.<format>
func outputPath(dir, label, format string, now time.Time) string {
	filename := fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), strings.TrimPrefix(format, "."))
	return filepath.Join(dir, label, filename)
}
