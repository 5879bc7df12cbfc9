package renderer

import (
	"context"
	"image"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/integrator"
	"github.com/df07/go-raymarcher/pkg/scene"
)

// Tile represents a rectangular region of the image to be rendered. Bounds
// are in image coordinates: y = 0 is the top row, the first one in scan order.
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid splits the image into full-width bands of tileHeight rows, top
// to bottom
func NewTileGrid(width, height, tileHeight int) []*Tile {
	if tileHeight <= 0 {
		tileHeight = 1
	}

	var tiles []*Tile
	for y0, id := 0, 0; y0 < height; y0, id = y0+tileHeight, id+1 {
		y1 := min(y0+tileHeight, height) // Don't exceed image bounds
		tiles = append(tiles, &Tile{ID: id, Bounds: image.Rect(0, y0, width, y1)})
	}
	return tiles
}

// TileRenderer renders regions of one frame
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     core.Config
}

// NewTileRenderer creates a tile renderer for a scene
func NewTileRenderer(s *scene.Scene, config core.Config) *TileRenderer {
	return &TileRenderer{
		scene:      s,
		integrator: integrator.New(s, config.Render),
		config:     config,
	}
}

// RenderTileBounds renders the pixels within bounds into colors, a scan-order
// slice covering the whole image. Tiles must not overlap when rendered
// concurrently into the same slice. The context is checked before each row.
func (tr *TileRenderer) RenderTileBounds(ctx context.Context, bounds image.Rectangle, colors []core.Color) (RenderStats, error) {
	width, height := tr.config.Image.Width, tr.config.Image.Height
	depth := tr.config.Render.MaxLightRecursions
	stats := RenderStats{}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		j := height - 1 - y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			colors[y*width+x] = renderPixel(tr.scene.Camera, tr.integrator, depth, x, j, width, height)
		}
		stats.TotalPixels += bounds.Dx()
		stats.RowsRendered++
	}

	return stats, nil
}
