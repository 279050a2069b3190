package audio

import (
	"testing"

	"github.com/gopxl/beep"

	"github.com/tomz197/hearts/internal/loop"
)

// drain streams s to the end and returns the sample count and peak level.
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			for _, v := range buf[i] {
				peak = max(peak, v, -v)
			}
		}
		total += n
		if !ok || n == 0 {
			break
		}
		if total > int(SampleRate)*10 {
			t.Fatal("cue never ended")
		}
	}
	if err := s.Err(); err != nil {
		t.Fatalf("stream error: %v", err)
	}
	return total, peak
}

func TestCueLengthsAndLevels(t *testing.T) {
	tests := []struct {
		name  string
		build func() (beep.Streamer, error)
		notes []note
		vol   float64
	}{
		{"catch", CatchSound, catchNotes, catchVolume},
		{"miss", MissSound, missNotes, missVolume},
		{"win", WinSound, winNotes, endVolume},
		{"loss", LossSound, lossNotes, endVolume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			n, peak := drain(t, s)
			if want := length(tt.notes); n != want {
				t.Errorf("samples = %d, want %d", n, want)
			}
			if peak == 0 {
				t.Error("cue is silent")
			}
			if peak > tt.vol+1e-9 {
				t.Errorf("peak = %f, want at most %f", peak, tt.vol)
			}
		})
	}
}

func TestNewVolumeZeroIsSilent(t *testing.T) {
	s, err := CatchSound()
	if err != nil {
		t.Fatal(err)
	}
	_, peak := drain(t, newVolume(s, 0))
	if peak != 0 {
		t.Fatalf("peak = %f, want 0", peak)
	}
}

func TestMelodyRejectsBadFrequency(t *testing.T) {
	// SineTone refuses frequencies at or above the Nyquist limit.
	if _, err := melody([]note{{float64(SampleRate), 1}}, 1); err == nil {
		t.Fatal("expected an error for a tone above Nyquist")
	}
}

func TestPlayerRoutesCues(t *testing.T) {
	p := NewPlayer(nil)
	var played int
	p.play = func(beep.Streamer) { played++ }

	// Not initialised: silent.
	p.Catch()
	if played != 0 {
		t.Fatalf("uninitialised player played %d cues", played)
	}

	p.initialized = true
	p.Catch()
	p.Miss()
	p.End(loop.OutcomeWin)
	p.End(loop.OutcomeLoss)
	p.End(loop.OutcomeUndetermined)

	if played != 4 {
		t.Fatalf("played = %d, want 4", played)
	}
}
