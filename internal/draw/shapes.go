package draw

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// heartCurves is the heart outline at scale 1 as two cubic Béziers, with the
// notch at the origin and the tip 120 units below it.
var heartCurves = [2][4]Point{
	{{0, 0}, {-50, -50}, {-100, 50}, {0, 120}},
	{{0, 120}, {100, 50}, {50, -50}, {0, 0}},
}

// heartSegments is the number of line segments per curve.
const heartSegments = 16

// HeartPointCount is the number of points HeartOutline produces.
const HeartPointCount = len(heartCurves) * heartSegments

// HeartOutline appends the outline of a heart with its notch at (x, y),
// scaled by size and rotated by rotation radians, to dst[:0].
func HeartOutline(dst []Point, x, y, size, rotation float64) []Point {
	dst = dst[:0]
	sin, cos := math.Sincos(rotation)
	for _, curve := range heartCurves {
		for i := 0; i < heartSegments; i++ {
			p := cubic(curve, float64(i)/heartSegments)
			px, py := p.X*size, p.Y*size
			dst = append(dst, Point{
				X: x + px*cos - py*sin,
				Y: y + px*sin + py*cos,
			})
		}
	}
	return dst
}

// cubic evaluates a cubic Bézier at t.
func cubic(c [4]Point, t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return Point{
		X: a*c[0].X + b*c[1].X + d*c[2].X + e*c[3].X,
		Y: a*c[0].Y + b*c[1].Y + d*c[2].Y + e*c[3].Y,
	}
}

// DrawHeart fills a heart and strokes its outline. Coordinates are logical.
func (c *Canvas) DrawHeart(x, y, size, rotation float64, fill, outline colorful.Color) {
	c.polygonBuf = HeartOutline(c.polygonBuf, x, y, size, rotation)
	c.FillPolygon(c.polygonBuf, fill)
	c.StrokePolygon(c.polygonBuf, outline)
}
