// Package config centralizes all tunable game parameters.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// View resolution - the logical viewport game objects live in.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 800
	ViewHeight = 600
)

// Max render resolution - terminal is clamped to this size; extra space is
// filled by a border.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Rendering
const (
	FrameRate     = 60
	FrameInterval = time.Second / FrameRate
	ClockInterval = time.Second
)

// Session
const (
	DefaultDuration      = 30 // Seconds
	MaxHealth            = 100
	DefaultMissPenalty   = 10
	DefaultQuoteDelay    = 2.0 // Seconds between the win message and the quote
	DefaultSpawnChance   = 0.03
	DefaultFallSpeed     = 2.0 // Logical units per frame
	DefaultExitMargin    = 100.0
	DefaultSpawnY        = -50.0
	DefaultMinSize       = 0.2
	DefaultMaxSize       = 0.7
	DefaultMaxSpinPerTic = 0.025 // Radians per frame
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// ErrInvalidTuning is returned when a tuning value is out of range.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds the gameplay knobs that may be overridden from a TOML file.
type Tuning struct {
	Duration         int      `toml:"duration"`           // Session length in seconds
	InitialHealth    int      `toml:"initial_health"`     // 1..MaxHealth
	MissPenalty      int      `toml:"miss_penalty"`       // Health lost per missed heart
	QuoteDelay       float64  `toml:"quote_delay"`        // Seconds
	SpawnChance      float64  `toml:"spawn_chance"`       // Per frame, 0..1
	FallSpeed        float64  `toml:"fall_speed"`         // Units per frame
	ExitMargin       float64  `toml:"exit_margin"`        // Units below the viewport before a heart counts as missed
	SpawnY           float64  `toml:"spawn_y"`            // Must be above the viewport
	MinSize          float64  `toml:"min_size"`           // Inclusive
	MaxSize          float64  `toml:"max_size"`           // Exclusive
	MaxRotationSpeed float64  `toml:"max_rotation_speed"` // Radians per frame
	Palette          []string `toml:"palette"`            // Hex colours
	ViewWidth        int      `toml:"view_width"`
	ViewHeight       int      `toml:"view_height"`
}

// Defaults returns the classic tuning.
func Defaults() Tuning {
	return Tuning{
		Duration:         DefaultDuration,
		InitialHealth:    MaxHealth,
		MissPenalty:      DefaultMissPenalty,
		QuoteDelay:       DefaultQuoteDelay,
		SpawnChance:      DefaultSpawnChance,
		FallSpeed:        DefaultFallSpeed,
		ExitMargin:       DefaultExitMargin,
		SpawnY:           DefaultSpawnY,
		MinSize:          DefaultMinSize,
		MaxSize:          DefaultMaxSize,
		MaxRotationSpeed: DefaultMaxSpinPerTic,
		Palette:          []string{"#ff4081", "#d81b60", "#ff79b0", "#ff1493"},
		ViewWidth:        ViewWidth,
		ViewHeight:       ViewHeight,
	}
}

// WithDefaults fills in the fields whose zero value is out of range and
// keeps everything else the caller set. The zero Tuning becomes Defaults.
// Fields where zero is meaningful (quote_delay, spawn_chance, exit_margin,
// max_rotation_speed) are left alone.
func (t Tuning) WithDefaults() Tuning {
	d := Defaults()
	if reflect.DeepEqual(t, Tuning{}) {
		return d
	}
	if t.Duration == 0 {
		t.Duration = d.Duration
	}
	if t.InitialHealth == 0 {
		t.InitialHealth = d.InitialHealth
	}
	if t.MissPenalty == 0 {
		t.MissPenalty = d.MissPenalty
	}
	if t.FallSpeed == 0 {
		t.FallSpeed = d.FallSpeed
	}
	if t.SpawnY == 0 {
		t.SpawnY = d.SpawnY
	}
	if t.MinSize == 0 && t.MaxSize == 0 {
		t.MinSize, t.MaxSize = d.MinSize, d.MaxSize
	}
	if len(t.Palette) == 0 {
		t.Palette = d.Palette
	}
	if t.ViewWidth == 0 {
		t.ViewWidth = d.ViewWidth
	}
	if t.ViewHeight == 0 {
		t.ViewHeight = d.ViewHeight
	}
	return t
}

// QuoteDelayDuration returns QuoteDelay as a time.Duration.
func (t Tuning) QuoteDelayDuration() time.Duration {
	return time.Duration(t.QuoteDelay * float64(time.Second))
}

// Validate checks every value is in range.
func (t Tuning) Validate() error {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}
	check(t.Duration > 0, "duration must be positive")
	check(t.InitialHealth > 0 && t.InitialHealth <= MaxHealth, fmt.Sprintf("initial_health must be in 1..%d", MaxHealth))
	check(t.MissPenalty > 0, "miss_penalty must be positive")
	check(t.QuoteDelay >= 0, "quote_delay must not be negative")
	check(t.SpawnChance >= 0 && t.SpawnChance <= 1, "spawn_chance must be in [0, 1]")
	check(t.FallSpeed > 0, "fall_speed must be positive")
	check(t.ExitMargin >= 0, "exit_margin must not be negative")
	check(t.SpawnY < 0, "spawn_y must be above the viewport")
	check(t.MinSize > 0 && t.MinSize < t.MaxSize, "min_size must be positive and below max_size")
	check(t.MaxRotationSpeed >= 0, "max_rotation_speed must not be negative")
	check(len(t.Palette) > 0, "palette must not be empty")
	check(t.ViewWidth > 0 && t.ViewHeight > 0, "view size must be positive")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTuning, strings.Join(problems, "; "))
	}
	return nil
}

// Load reads a TOML tuning file on top of Defaults. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	meta, err := toml.DecodeFile(path, &t)
	if err != nil {
		return Tuning{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Tuning{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidTuning, path, strings.Join(keys, ", "))
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}
