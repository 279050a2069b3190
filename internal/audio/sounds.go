// Package audio plays short synthesized cues for catches, misses and the end
// of a session.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// SampleRate is the rate every cue is rendered at.
const SampleRate = beep.SampleRate(48000)

// note is one step of a cue.
type note struct {
	freq float64 // Hz, 0 for a rest
	dur  time.Duration
}

// Cue lengths and volumes.
const (
	catchVolume = 0.35
	missVolume  = 0.3
	endVolume   = 0.3
	noteGap     = 15 * time.Millisecond
)

var (
	catchNotes = []note{{1318.5, 60 * time.Millisecond}, {1760, 90 * time.Millisecond}}
	missNotes  = []note{{196, 140 * time.Millisecond}}
	winNotes   = []note{
		{523.25, 120 * time.Millisecond},
		{659.25, 120 * time.Millisecond},
		{783.99, 120 * time.Millisecond},
		{1046.5, 260 * time.Millisecond},
	}
	lossNotes = []note{
		{392, 180 * time.Millisecond},
		{311.13, 180 * time.Millisecond},
		{233.08, 360 * time.Millisecond},
	}
)

// CatchSound is a quick rising chirp.
func CatchSound() (beep.Streamer, error) {
	return melody(catchNotes, catchVolume)
}

// MissSound is a low thud.
func MissSound() (beep.Streamer, error) {
	return melody(missNotes, missVolume)
}

// WinSound is an ascending arpeggio.
func WinSound() (beep.Streamer, error) {
	return melody(winNotes, endVolume)
}

// LossSound is a descending minor phrase.
func LossSound() (beep.Streamer, error) {
	return melody(lossNotes, endVolume)
}

// melody renders notes back to back with a short gap between them.
func melody(notes []note, vol float64) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(notes)*2)
	for i, n := range notes {
		if i > 0 {
			parts = append(parts, beep.Silence(SampleRate.N(noteGap)))
		}
		if n.freq == 0 {
			parts = append(parts, beep.Silence(SampleRate.N(n.dur)))
			continue
		}
		tone, err := generators.SineTone(SampleRate, n.freq)
		if err != nil {
			return nil, fmt.Errorf("tone %.1f Hz: %w", n.freq, err)
		}
		parts = append(parts, fade(beep.Take(SampleRate.N(n.dur), tone), SampleRate.N(n.dur)))
	}
	return newVolume(beep.Seq(parts...), vol), nil
}

// length returns the number of samples the notes of a cue span.
func length(notes []note) int {
	total := 0
	for i, n := range notes {
		if i > 0 {
			total += SampleRate.N(noteGap)
		}
		total += SampleRate.N(n.dur)
	}
	return total
}

// fade applies a linear release over the last quarter of a tone so notes do
// not click when they stop.
func fade(s beep.Streamer, total int) beep.Streamer {
	release := total / 4
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			if remaining := total - pos; remaining < release {
				vol := float64(remaining) / float64(release)
				samples[i][0] *= vol
				samples[i][1] *= vol
			}
			pos++
		}
		return n, ok
	})
}

// newVolume scales a stream linearly. math.Log2(0) is -Inf, so zero is
// treated as silence.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
