// Package draw renders to terminals: a colour canvas with 2x vertical
// resolution, heart outlines, and ANSI helpers.
package draw

import colorful "github.com/lucasb-eyer/go-colorful"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Pixel is a single canvas sub-pixel. The zero value is unset.
type Pixel struct {
	R, G, B uint8
	Set     bool
}

// PixelOf converts a colour to a set pixel.
func PixelOf(c colorful.Color) Pixel {
	r, g, b := c.Clamped().RGB255()
	return Pixel{R: r, G: g, B: b, Set: true}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
