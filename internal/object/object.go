// Package object defines the game entities: the pulsing centrepiece and the
// falling hearts the player has to catch.
package object

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Rand is the random source used for spawning and quote selection.
// *math/rand.Rand satisfies it; tests inject scripted sources.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Screen represents the logical viewport dimensions.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen returns a Screen with its centre filled in.
func NewScreen(width, height int) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// DefaultPalette holds the falling heart colours.
var DefaultPalette = MustPalette("#ff4081", "#d81b60", "#ff79b0", "#ff1493")

// OutlineColor is the stroke colour of every heart.
var OutlineColor = mustHex("#d81b60")

// ParsePalette parses hex colour strings into a palette.
func ParsePalette(hexes ...string) ([]colorful.Color, error) {
	palette := make([]colorful.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette colour %q: %w", h, err)
		}
		palette = append(palette, c)
	}
	return palette, nil
}

// MustPalette is like ParsePalette but panics on a malformed colour.
func MustPalette(hexes ...string) []colorful.Color {
	palette, err := ParsePalette(hexes...)
	if err != nil {
		panic(err)
	}
	return palette
}

func mustHex(h string) colorful.Color {
	c, err := colorful.Hex(h)
	if err != nil {
		panic(err)
	}
	return c
}
