package output

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/df07/go-raymarcher/pkg/core"
)

// ConvertToByte quantizes a color channel to a byte. Values are truncated, not
// rounded, and clamped to [0, 255]; NaN becomes 0.
func ConvertToByte(f float64) uint8 {
	if math.IsNaN(f) {
		return 0
	}
	v := f * 255.999
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// WritePPM writes colors as a plain-text P3 image: the header, then one
// "R G B" line per pixel in scan order. colors may be an iterator-fed slice
// shorter than width*height; only what is given is written.
func WritePPM(w io.Writer, width, height int, colors []core.Color) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	for _, c := range colors {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", ConvertToByte(c.R), ConvertToByte(c.G), ConvertToByte(c.B)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
