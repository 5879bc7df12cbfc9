package core

// Color is a linear RGB triple. Channels are unbounded while shading and only
// clamped when quantized for output.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// White returns (1, 1, 1)
func White() Color { return Color{1, 1, 1} }

// Black returns (0, 0, 0)
func Black() Color { return Color{} }

// Magenta returns (1, 0, 1), used to flag surfaces without a usable material
func Magenta() Color { return Color{1, 0, 1} }

// Add returns the channel-wise sum
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Multiply scales every channel
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// MultiplyColor returns the channel-wise product
func (c Color) MultiplyColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Lerp interpolates between c (t=0) and other (t=1)
func (c Color) Lerp(other Color, t float64) Color {
	return c.Multiply(1 - t).Add(other.Multiply(t))
}

// ColorFromVec3 reinterprets a vector as a color, e.g. for normal visualization
func ColorFromVec3(v Vec3) Color {
	return Color{v.X, v.Y, v.Z}
}

// Luminance returns the perceptual luminance of the color
func (c Color) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}
