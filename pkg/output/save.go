package output

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/disintegration/imaging"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// ErrUnsupportedFormat is returned for file extensions Save cannot write
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format identifies an output encoding
type Format int

const (
	FormatPPM Format = iota
	FormatPPMZstd
	FormatPPMSnappy
	FormatPNG
	FormatJPEG
)

// ContentType returns the MIME type used when publishing the format
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPPMZstd:
		return "application/zstd"
	case FormatPPMSnappy:
		return "application/x-snappy-framed"
	default:
		return "image/x-portable-pixmap"
	}
}

// FormatFromPath picks the format from a file name
func FormatFromPath(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".ppm.zst"):
		return FormatPPMZstd, nil
	case strings.HasSuffix(name, ".ppm.sz"):
		return FormatPPMSnappy, nil
	case strings.HasSuffix(name, ".ppm"):
		return FormatPPM, nil
	case strings.HasSuffix(name, ".png"):
		return FormatPNG, nil
	case strings.HasSuffix(name, ".jpg"), strings.HasSuffix(name, ".jpeg"):
		return FormatJPEG, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Encode writes a frame in the given format
func Encode(w io.Writer, format Format, width, height int, colors []core.Color) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, width, height, colors)

	case FormatPPMZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if err := WritePPM(enc, width, height, colors); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()

	case FormatPPMSnappy:
		stream := snappy.NewBufferedWriter(w)
		if err := WritePPM(stream, width, height, colors); err != nil {
			stream.Close()
			return err
		}
		return stream.Close()

	case FormatPNG:
		return imaging.Encode(w, ToNRGBA(colors, width, height), imaging.PNG)

	case FormatJPEG:
		return imaging.Encode(w, ToNRGBA(colors, width, height), imaging.JPEG, imaging.JPEGQuality(95))

	default:
		return fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
	}
}

// EncodeBytes encodes a frame into memory
func EncodeBytes(format Format, width, height int, colors []core.Color) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, format, width, height, colors); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes a frame to path, choosing the encoding from the extension and
// creating parent directories as needed
func Save(path string, width, height int, colors []core.Color) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Encode(file, format, width, height, colors); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}

// ToNRGBA converts scan-order colors into an image. Pixels past the end of
// colors are opaque black.
func ToNRGBA(colors []core.Color, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for idx := 0; idx < width*height; idx++ {
		c := color.NRGBA{A: 255}
		if idx < len(colors) {
			c.R = ConvertToByte(colors[idx].R)
			c.G = ConvertToByte(colors[idx].G)
			c.B = ConvertToByte(colors[idx].B)
		}
		img.SetNRGBA(idx%width, idx/width, c)
	}
	return img
}
