package renderer

import (
	"iter"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/geometry"
	"github.com/df07/go-raymarcher/pkg/integrator"
	"github.com/df07/go-raymarcher/pkg/scene"
)

// Render returns the image as a lazy sequence of colors in scan order: rows
// from the top of the image (v = 1) down, each row left to right. Nothing is
// marched until the sequence is ranged over, and stopping early stops the
// render. The sequence can be ranged over again to render the frame anew.
//
// config and s are assumed valid; callers that cannot guarantee it should
// check config.Validate() and s.Validate() first.
func Render(config core.Config, s *scene.Scene) iter.Seq[core.Color] {
	return func(yield func(core.Color) bool) {
		width, height := config.Image.Width, config.Image.Height
		integ := integrator.New(s, config.Render)
		depth := config.Render.MaxLightRecursions

		for i, j := range PixelOrder(width, height) {
			if !yield(renderPixel(s.Camera, integ, depth, i, j, width, height)) {
				return
			}
		}
	}
}

// PixelOrder yields the (column, row) pairs of a width x height image in scan
// order. Rows count up from the bottom, so the first row yielded is height-1.
func PixelOrder(width, height int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for j := height - 1; j >= 0; j-- {
			for i := 0; i < width; i++ {
				if !yield(i, j) {
					return
				}
			}
		}
	}
}

// pixelUV maps pixel (i, j) to viewport coordinates in [0,1]. A single
// column or row sits in the middle of the viewport.
func pixelUV(i, j, width, height int) (float64, float64) {
	u, v := 0.5, 0.5
	if width > 1 {
		u = float64(i) / float64(width-1)
	}
	if height > 1 {
		v = float64(j) / float64(height-1)
	}
	return u, v
}

// PixelRay returns the primary ray through pixel (i, j), with j counted up
// from the bottom row
func PixelRay(camera *geometry.Camera, i, j, width, height int) core.Ray {
	u, v := pixelUV(i, j, width, height)
	return camera.GetRay(u, v)
}

func renderPixel(camera *geometry.Camera, integ integrator.Integrator, depth, i, j, width, height int) core.Color {
	return integ.RayColor(PixelRay(camera, i, j, width, height), depth)
}
