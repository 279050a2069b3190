// Package loop runs a heart-catching session: the state machine, the 1 Hz
// clock, the frame driver, and the click handler.
package loop

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/hearts/internal/loop/config"
	"github.com/tomz197/hearts/internal/object"
)

// Surface is the drawing target a frame renders into.
type Surface interface {
	Clear()
	DrawHeart(x, y, size float64, color colorful.Color, rotation float64)
	Flush() error
}

// Presenter receives HUD updates. Calls are fire-and-forget.
type Presenter interface {
	SetHealth(percent int)
	SetTime(secondsLeft int)
	SetMessage(text string)
}

// Effects plays feedback cues.
type Effects interface {
	Catch()
	Miss()
	End(outcome Outcome)
}

type nopSurface struct{}

func (nopSurface) Clear() {}

func (nopSurface) DrawHeart(_, _, _ float64, _ colorful.Color, _ float64) {}

func (nopSurface) Flush() error { return nil }

type nopPresenter struct{}

func (nopPresenter) SetHealth(int)     {}
func (nopPresenter) SetTime(int)       {}
func (nopPresenter) SetMessage(string) {}

type nopEffects struct{}

func (nopEffects) Catch()      {}
func (nopEffects) Miss()       {}
func (nopEffects) End(Outcome) {}

// Options configures a Session. Scheduler is required; nil collaborators are
// replaced with no-ops.
type Options struct {
	Tuning    config.Tuning
	Rand      object.Rand
	Scheduler Scheduler
	Surface   Surface
	Presenter Presenter
	Effects   Effects
	Logger    *log.Logger
}

// Session is the session controller. It owns the state and the scheduled
// tasks, and every method must run on the scheduler's goroutine.
type Session struct {
	tuning    config.Tuning
	view      object.Screen
	rng       object.Rand
	sched     Scheduler
	surface   Surface
	presenter Presenter
	effects   Effects
	logger    *log.Logger

	state   State
	pulse   *object.PulsingHeart
	spawner *object.Spawner

	clock Task // 1 Hz countdown
	frame Task // Next frame callback
	quote Task // Delayed win quote
}

// NewSession creates a session in the NotStarted phase.
func NewSession(opts Options) *Session {
	s := &Session{
		tuning:    opts.Tuning.WithDefaults(),
		rng:       opts.Rand,
		sched:     opts.Scheduler,
		surface:   opts.Surface,
		presenter: opts.Presenter,
		effects:   opts.Effects,
		logger:    opts.Logger,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.surface == nil {
		s.surface = nopSurface{}
	}
	if s.presenter == nil {
		s.presenter = nopPresenter{}
	}
	if s.effects == nil {
		s.effects = nopEffects{}
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	s.view = object.NewScreen(s.tuning.ViewWidth, s.tuning.ViewHeight)
	s.pulse = object.NewPulsingHeart(float64(s.view.CenterX), float64(s.view.CenterY))
	s.spawner = &object.Spawner{
		Chance:           s.tuning.SpawnChance,
		SpawnY:           s.tuning.SpawnY,
		MinSize:          s.tuning.MinSize,
		MaxSize:          s.tuning.MaxSize,
		MaxRotationSpeed: s.tuning.MaxRotationSpeed,
		Palette:          object.DefaultPalette,
	}
	if palette, err := object.ParsePalette(s.tuning.Palette...); err == nil && len(palette) > 0 {
		s.spawner.Palette = palette
	} else if err != nil {
		s.logger.Warn("bad palette, using default", "err", err)
	}
	return s
}

// Start resets the session and begins the clock and the frame loop. Calling
// it again restarts the session.
func (s *Session) Start() {
	s.cancelTasks()
	if s.quote != nil {
		s.quote.Cancel()
		s.quote = nil
	}

	s.state = State{
		Health:   s.tuning.InitialHealth,
		TimeLeft: s.tuning.Duration,
		Phase:    PhaseActive,
	}

	s.presenter.SetHealth(s.state.Health)
	s.presenter.SetTime(s.state.TimeLeft)
	s.presenter.SetMessage(MessageStart)

	s.clock = s.sched.Every(config.ClockInterval, s.Tick)
	s.frame = s.sched.NextFrame(s.Frame)
	s.logger.Debug("session started", "duration", s.state.TimeLeft, "health", s.state.Health)
}

// EndGame records the outcome. Only the first call while Active has any
// effect; the transition cancels the clock and frame loop and clears the
// falling hearts.
func (s *Session) EndGame(win bool) {
	if s.state.Phase != PhaseActive {
		return
	}
	s.state.Phase = PhaseEnded
	s.state.Hearts = nil
	s.cancelTasks()

	if win {
		s.state.Outcome = OutcomeWin
		s.presenter.SetMessage(MessageWin)
		s.quote = s.sched.After(s.tuning.QuoteDelayDuration(), s.showQuote)
	} else {
		s.state.Outcome = OutcomeLoss
		s.presenter.SetMessage(MessageLoss)
	}
	s.renderStill()
	s.effects.End(s.state.Outcome)

	s.logger.Info("session ended",
		"outcome", s.state.Outcome,
		"score", s.state.Score,
		"health", s.state.Health,
		"timeLeft", s.state.TimeLeft,
	)
}

func (s *Session) showQuote() {
	s.quote = nil
	s.presenter.SetMessage(Quotes[s.rng.Intn(len(Quotes))])
}

// cancelTasks stops the clock and the frame loop.
func (s *Session) cancelTasks() {
	if s.clock != nil {
		s.clock.Cancel()
		s.clock = nil
	}
	if s.frame != nil {
		s.frame.Cancel()
		s.frame = nil
	}
}

// renderStill draws the final picture after the session ended: the pulsing
// heart alone.
func (s *Session) renderStill() {
	s.surface.Clear()
	s.drawPulse()
	s.flush()
}

// Snapshot returns a copy of the session counters.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Score:    s.state.Score,
		Health:   s.state.Health,
		TimeLeft: s.state.TimeLeft,
		Phase:    s.state.Phase,
		Outcome:  s.state.Outcome,
		Hearts:   len(s.state.Hearts),
	}
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	return s.state.Phase
}

// View returns the logical viewport.
func (s *Session) View() object.Screen {
	return s.view
}
