package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/hearts/internal/loop"
)

// Player plays session cues through the system speaker. A Player that was
// never initialised, or whose initialisation failed, stays silent.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	logger      *log.Logger

	// play hands a cue to the output. Replaced in tests.
	play func(beep.Streamer)
}

// Compile-time check that Player implements loop.Effects.
var _ loop.Effects = (*Player)(nil)

// NewPlayer creates a silent player. Call Init to open the speaker.
func NewPlayer(logger *log.Logger) *Player {
	p := &Player{
		mixer:  &beep.Mixer{},
		logger: logger,
	}
	p.play = p.playSpeaker
	return p
}

// Init opens the speaker with a 100ms buffer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences anything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// Catch plays the caught-heart chirp.
func (p *Player) Catch() {
	p.cue("catch", CatchSound)
}

// Miss plays the missed-heart thud.
func (p *Player) Miss() {
	p.cue("miss", MissSound)
}

// End plays the win or loss phrase.
func (p *Player) End(outcome loop.Outcome) {
	switch outcome {
	case loop.OutcomeWin:
		p.cue("win", WinSound)
	case loop.OutcomeLoss:
		p.cue("loss", LossSound)
	}
}

func (p *Player) cue(name string, build func() (beep.Streamer, error)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s, err := build()
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("building cue", "cue", name, "err", err)
		}
		return
	}
	p.play(s)
}

func (p *Player) playSpeaker(s beep.Streamer) {
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}
