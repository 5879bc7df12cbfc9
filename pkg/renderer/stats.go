package renderer

import (
	"time"

	"github.com/df07/go-raymarcher/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	RowsRendered int           // Number of image rows completed
	TotalTiles   int           // Number of tiles the frame was split into
	NumWorkers   int           // Workers that shared the frame
	Duration     time.Duration // Wall time for the frame
}

// Merge adds the pixel and row counts of other to s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.RowsRendered += other.RowsRendered
}

// PixelsPerSecond returns the render throughput, or 0 before anything was timed
func (s RenderStats) PixelsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalPixels) / s.Duration.Seconds()
}

// AverageLuminance returns the mean perceptual luminance of a frame
func AverageLuminance(colors []core.Color) float64 {
	if len(colors) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range colors {
		total += c.Luminance()
	}
	return total / float64(len(colors))
}
