package object

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/hearts/internal/physics"
)

// BaseRadius is the hit radius of a heart drawn at scale 1. It matches the
// footprint of the outline produced by draw.HeartOutline.
const BaseRadius = 50.0

// FallingHeart is a clickable heart descending through the viewport.
type FallingHeart struct {
	X, Y          float64        // Position of the heart's notch; X never changes
	Size          float64        // Drawn scale
	Color         colorful.Color // Fill colour
	Rotation      float64        // Radians, accumulates
	RotationSpeed float64        // Radians per frame
}

// HitRadius returns the click radius, proportional to the drawn size.
func (h *FallingHeart) HitRadius() float64 {
	return BaseRadius * h.Size
}

// Step moves the heart down by fallSpeed and spins it.
func (h *FallingHeart) Step(fallSpeed float64) {
	h.Y += fallSpeed
	h.Rotation += h.RotationSpeed
}

// Exited reports whether the heart has fallen past the bottom edge plus margin.
func (h *FallingHeart) Exited(viewHeight, margin float64) bool {
	return h.Y > viewHeight+margin
}

// Contains reports whether the point (x, y) hits the heart.
func (h *FallingHeart) Contains(x, y float64) bool {
	return physics.PointInCircle(x, y, h.X, h.Y, h.HitRadius())
}
