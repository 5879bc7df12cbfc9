package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/scene"
)

// TileResult reports one finished tile
type TileResult struct {
	Index int // Position of the tile in the submitted grid
	Stats RenderStats
	Error error
}

// WorkerPool renders the tiles of one frame into a shared scan-order buffer.
// Tiles never overlap, so each worker writes a disjoint range of the buffer.
type WorkerPool struct {
	ctx     context.Context
	scene   *scene.Scene
	config  core.Config
	frame   []core.Color
	tiles   chan indexedTile
	results chan TileResult
	size    int
	wg      sync.WaitGroup
}

type indexedTile struct {
	index int
	tile  *Tile
}

// NewWorkerPool creates a pool filling frame. numWorkers <= 0 uses one worker
// per CPU. queueSize should be the number of tiles so Submit never blocks.
func NewWorkerPool(ctx context.Context, s *scene.Scene, config core.Config, frame []core.Color, queueSize, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		ctx:     ctx,
		scene:   s,
		config:  config,
		frame:   frame,
		tiles:   make(chan indexedTile, queueSize),
		results: make(chan TileResult, queueSize),
		size:    numWorkers,
	}
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	for range wp.size {
		wp.wg.Add(1)
		go wp.work()
	}
}

// Stop waits for queued tiles to drain and closes the results
func (wp *WorkerPool) Stop() {
	close(wp.tiles)
	wp.wg.Wait()
	close(wp.results)
}

// Submit queues a tile
func (wp *WorkerPool) Submit(index int, tile *Tile) {
	wp.tiles <- indexedTile{index: index, tile: tile}
}

// Next blocks for the next finished tile, in completion order
func (wp *WorkerPool) Next() (TileResult, bool) {
	result, ok := <-wp.results
	return result, ok
}

// Size returns the number of workers
func (wp *WorkerPool) Size() int {
	return wp.size
}

func (wp *WorkerPool) work() {
	defer wp.wg.Done()

	tr := NewTileRenderer(wp.scene, wp.config)
	for t := range wp.tiles {
		stats, err := tr.RenderTileBounds(wp.ctx, t.tile.Bounds, wp.frame)
		wp.results <- TileResult{Index: t.index, Stats: stats, Error: err}
	}
}
