// Package physics provides distance and hit-testing helpers.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(DistanceSquared(x1, y1, x2, y2))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle reports whether a point lies strictly inside the circle
// centred on (cx, cy). A point exactly on the rim is outside.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	if radius <= 0 {
		return false
	}
	return DistanceSquared(px, py, cx, cy) < radius*radius
}
