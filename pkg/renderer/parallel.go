package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/scene"
)

// ParallelConfig contains configuration for parallel rendering
type ParallelConfig struct {
	TileHeight int // Rows per tile
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultParallelConfig returns sensible default values
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		TileHeight: 8,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// ParallelRaymarcher renders one frame with a pool of workers, each taking
// bands of rows. The result is identical to Render, in the same scan order.
type ParallelRaymarcher struct {
	scene    *scene.Scene
	config   core.Config
	parallel ParallelConfig
	tiles    []*Tile
	logger   core.Logger
}

// NewParallelRaymarcher creates a parallel raymarcher. A nil logger discards output.
func NewParallelRaymarcher(s *scene.Scene, config core.Config, parallel ParallelConfig, logger core.Logger) *ParallelRaymarcher {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if parallel.TileHeight <= 0 {
		parallel.TileHeight = DefaultParallelConfig().TileHeight
	}

	return &ParallelRaymarcher{
		scene:    s,
		config:   config,
		parallel: parallel,
		tiles:    NewTileGrid(config.Image.Width, config.Image.Height, parallel.TileHeight),
		logger:   logger,
	}
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	Tile   *Tile
	Colors []core.Color // The tile's pixels in scan order, shared with the frame buffer

	// Progress information
	TileNumber int // Tiles completed so far, including this one
	TotalTiles int
}

// FrameResult contains a finished frame
type FrameResult struct {
	Colors []core.Color
	Stats  RenderStats
}

// RenderFrame renders the whole frame. tileCallback, if not nil, is called
// from the calling goroutine as each tile completes, in completion order.
func (pr *ParallelRaymarcher) RenderFrame(ctx context.Context, tileCallback func(TileCompletionResult)) ([]core.Color, RenderStats, error) {
	if err := pr.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	if err := pr.scene.Validate(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("invalid scene: %w", err)
	}

	startTime := time.Now()
	width := pr.config.Image.Width
	colors := make([]core.Color, width*pr.config.Image.Height)

	workerPool := NewWorkerPool(ctx, pr.scene, pr.config, colors, len(pr.tiles), pr.parallel.NumWorkers)
	workerPool.Start()
	defer workerPool.Stop()

	pr.logger.Printf("Rendering %dx%d in %d tiles (using %d workers)...\n",
		width, pr.config.Image.Height, len(pr.tiles), workerPool.Size())

	for i, tile := range pr.tiles {
		workerPool.Submit(i, tile)
	}

	stats := RenderStats{
		TotalTiles: len(pr.tiles),
		NumWorkers: workerPool.Size(),
	}

	for i := range pr.tiles {
		result, ok := workerPool.Next()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}
		stats.Merge(result.Stats)

		if tileCallback != nil {
			tile := pr.tiles[result.Index]
			tileCallback(TileCompletionResult{
				Tile:       tile,
				Colors:     colors[tile.Bounds.Min.Y*width : tile.Bounds.Max.Y*width],
				TileNumber: i + 1,
				TotalTiles: len(pr.tiles),
			})
		}
	}

	stats.Duration = time.Since(startTime)
	pr.logger.Printf("Frame completed in %v (%.0f pixels/s)\n", stats.Duration, stats.PixelsPerSecond())

	return colors, stats, nil
}

// RenderOptions configures asynchronous rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderAsync renders in the background and reports through channels. The
// caller should drain the channels until they are closed. If
// options.TileUpdates is false, the tile channel is closed immediately.
func (pr *ParallelRaymarcher) RenderAsync(ctx context.Context, options RenderOptions) (<-chan FrameResult, <-chan TileCompletionResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	tileChan := make(chan TileCompletionResult, len(pr.tiles))
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(frameChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		var tileCallback func(TileCompletionResult)
		if options.TileUpdates {
			tileCallback = func(result TileCompletionResult) {
				select {
				case tileChan <- result:
				case <-ctx.Done():
				}
			}
		}

		colors, stats, err := pr.RenderFrame(ctx, tileCallback)
		if err != nil {
			errChan <- err
			return
		}

		select {
		case frameChan <- FrameResult{Colors: colors, Stats: stats}:
		case <-ctx.Done():
		}
	}()

	return frameChan, tileChan, errChan
}

// RenderParallel renders a frame with the given number of workers (0 = one
// per CPU) and returns it in scan order
func RenderParallel(ctx context.Context, config core.Config, s *scene.Scene, workers int) ([]core.Color, RenderStats, error) {
	parallel := DefaultParallelConfig()
	parallel.NumWorkers = workers
	return NewParallelRaymarcher(s, config, parallel, nil).RenderFrame(ctx, nil)
}
