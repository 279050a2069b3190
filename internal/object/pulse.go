package object

import colorful "github.com/lucasb-eyer/go-colorful"

// Pulse bounds and step for the centrepiece heart.
const (
	PulseMinScale = 0.8
	PulseMaxScale = 1.2
	PulseStep     = 0.01
)

// PulsingHeart is the decorative heart beating at the centre of the screen.
// It is never clickable and survives restarts.
type PulsingHeart struct {
	X, Y      float64 // Fixed at the viewport centre
	Scale     float64 // Always within [PulseMinScale, PulseMaxScale]
	Direction float64 // +1 growing, -1 shrinking
	Hue       int     // 0..359
}

// NewPulsingHeart creates the centrepiece at the given position.
func NewPulsingHeart(x, y float64) *PulsingHeart {
	return &PulsingHeart{
		X:         x,
		Y:         y,
		Scale:     1,
		Direction: 1,
	}
}

// Animate advances the beat by one frame. Crossing a bound clamps the scale
// to that bound and reverses direction. The hue steps by one degree.
func (p *PulsingHeart) Animate() {
	p.Scale += PulseStep * p.Direction
	switch {
	case p.Scale > PulseMaxScale:
		p.Scale = PulseMaxScale
		p.Direction = -1
	case p.Scale < PulseMinScale:
		p.Scale = PulseMinScale
		p.Direction = 1
	}
	p.Hue = (p.Hue + 1) % 360
}

// Color returns the fully saturated colour for the current hue.
func (p *PulsingHeart) Color() colorful.Color {
	return colorful.Hsl(float64(p.Hue), 1, 0.5)
}
