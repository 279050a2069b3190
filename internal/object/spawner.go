package object

import colorful "github.com/lucasb-eyer/go-colorful"

// Spawner randomly drops new falling hearts from above the viewport.
type Spawner struct {
	Chance           float64          // Probability of a spawn per call
	SpawnY           float64          // Starting Y, negative so hearts fall into view
	MinSize          float64          // Inclusive lower size bound
	MaxSize          float64          // Exclusive upper size bound
	MaxRotationSpeed float64          // Rotation speed is drawn from [-max, max)
	Palette          []colorful.Color // Colours to choose from
}

// NewSpawner returns a spawner with the classic tuning.
func NewSpawner() *Spawner {
	return &Spawner{
		Chance:           0.03,
		SpawnY:           -50,
		MinSize:          0.2,
		MaxSize:          0.7,
		MaxRotationSpeed: 0.025,
		Palette:          DefaultPalette,
	}
}

// TrySpawn appends a new heart to hearts with probability Chance and returns
// the (possibly grown) slice.
func (s *Spawner) TrySpawn(hearts []*FallingHeart, viewWidth float64, rng Rand) []*FallingHeart {
	if rng.Float64() >= s.Chance {
		return hearts
	}

	heart := &FallingHeart{
		X:             rng.Float64() * viewWidth,
		Y:             s.SpawnY,
		Size:          s.MinSize + rng.Float64()*(s.MaxSize-s.MinSize),
		RotationSpeed: (rng.Float64()*2 - 1) * s.MaxRotationSpeed,
	}
	if len(s.Palette) > 0 {
		heart.Color = s.Palette[rng.Intn(len(s.Palette))]
	}
	return append(hearts, heart)
}
