package draw

import (
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestHeartOutline(t *testing.T) {
	pts := HeartOutline(nil, 100, 50, 1, 0)
	if len(pts) != HeartPointCount {
		t.Fatalf("len = %d, want %d", len(pts), HeartPointCount)
	}
	if !near(pts[0].X, 100) || !near(pts[0].Y, 50) {
		t.Fatalf("first point %v, want the notch at (100,50)", pts[0])
	}
	tip := pts[heartSegments]
	if !near(tip.X, 100) || !near(tip.Y, 170) {
		t.Fatalf("tip %v, want (100,170)", tip)
	}

	half := HeartOutline(pts, 0, 0, 0.5, 0)
	if !near(half[heartSegments].Y, 60) {
		t.Fatalf("scaled tip Y = %v, want 60", half[heartSegments].Y)
	}

	flipped := HeartOutline(nil, 0, 0, 1, math.Pi)
	if !near(flipped[heartSegments].Y, -120) || math.Abs(flipped[heartSegments].X) > 1e-9 {
		t.Fatalf("rotated tip %v, want (0,-120)", flipped[heartSegments])
	}
}

func TestDrawHeartPaintsFillAndOutline(t *testing.T) {
	c := NewCanvas(40, 20)
	fill := colorful.Color{R: 1, G: 0.25, B: 0.5}
	outline := colorful.Color{R: 0.85, G: 0.1, B: 0.37}
	c.DrawHeart(20, 5, 0.2, 0, fill, outline)

	fillPx, outlinePx := PixelOf(fill), PixelOf(outline)
	var sawFill, sawOutline bool
	for row := 0; row < 20; row++ {
		for col := 0; col < 40; col++ {
			top, bottom := c.Cell(col, row)
			for _, p := range []Pixel{top, bottom} {
				sawFill = sawFill || p == fillPx
				sawOutline = sawOutline || p == outlinePx
			}
		}
	}
	if !sawFill || !sawOutline {
		t.Fatalf("fill=%v outline=%v", sawFill, sawOutline)
	}
}
