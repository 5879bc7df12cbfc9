package renderer

import (
	"image"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/output"
)

// ToImage converts scan-order colors into an image, quantizing every channel
// the same way the PPM writer does. Missing trailing pixels stay black.
func ToImage(colors []core.Color, width, height int) *image.NRGBA {
	return output.ToNRGBA(colors, width, height)
}
