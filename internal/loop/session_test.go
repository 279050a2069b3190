package loop

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/tomz197/hearts/internal/loop/config"
	"github.com/tomz197/hearts/internal/object"
)

func TestNewSessionNotStarted(t *testing.T) {
	s, sched, _ := newTestSession()

	if got := s.Phase(); got != PhaseNotStarted {
		t.Fatalf("phase = %v, want %v", got, PhaseNotStarted)
	}
	if len(sched.frames)+len(sched.every) != 0 {
		t.Fatal("tasks scheduled before Start")
	}

	s.Tick()
	s.Frame()
	if s.HandleClick(400, 300) {
		t.Fatal("click caught a heart before Start")
	}
	if got := s.Snapshot(); got.TimeLeft != 0 || got.Phase != PhaseNotStarted {
		t.Fatalf("snapshot changed before Start: %+v", got)
	}
}

func TestStartResetsAndSchedules(t *testing.T) {
	s, sched, rec := newTestSession()
	s.Start()

	snap := s.Snapshot()
	want := Snapshot{Health: 100, TimeLeft: 30, Phase: PhaseActive}
	if snap != want {
		t.Fatalf("snapshot = %+v, want %+v", snap, want)
	}
	if got := sched.live(sched.every); got != 1 {
		t.Fatalf("clock tasks = %d, want 1", got)
	}
	if sched.every[0].period != config.ClockInterval {
		t.Fatalf("clock period = %v, want %v", sched.every[0].period, config.ClockInterval)
	}
	if got := sched.live(sched.frames); got != 1 {
		t.Fatalf("frame tasks = %d, want 1", got)
	}
	if !slices.Equal(rec.health, []int{100}) || !slices.Equal(rec.times, []int{30}) {
		t.Fatalf("HUD health=%v time=%v, want [100] [30]", rec.health, rec.times)
	}
	if rec.lastMessage() != MessageStart {
		t.Fatalf("message = %q, want %q", rec.lastMessage(), MessageStart)
	}
}

// Health after N misses is max(0, 100 - 10N); Loss iff it reaches 0.
func TestHealthInvariant(t *testing.T) {
	for n := 0; n <= 12; n++ {
		t.Run(fmt.Sprintf("misses=%d", n), func(t *testing.T) {
			s, sched, _ := newTestSession()
			s.Start()

			for i := 0; i < n; i++ {
				s.state.Hearts = append(s.state.Hearts, doomedHeart())
				sched.frame()
			}

			snap := s.Snapshot()
			want := max(0, 100-10*n)
			if snap.Health != want {
				t.Fatalf("health = %d, want %d", snap.Health, want)
			}
			lost := snap.Outcome == OutcomeLoss
			if lost != (want == 0) {
				t.Fatalf("outcome = %v with health %d", snap.Outcome, snap.Health)
			}
		})
	}
}

// TimeLeft after T ticks is max(0, D - T); Win iff it reaches 0.
func TestTimeInvariant(t *testing.T) {
	for _, ticks := range []int{0, 1, 15, 29, 30, 31, 45} {
		t.Run(fmt.Sprintf("ticks=%d", ticks), func(t *testing.T) {
			s, sched, _ := newTestSession()
			s.Start()

			for i := 0; i < ticks; i++ {
				sched.tick()
			}

			snap := s.Snapshot()
			want := max(0, 30-ticks)
			if snap.TimeLeft != want {
				t.Fatalf("time left = %d, want %d", snap.TimeLeft, want)
			}
			won := snap.Outcome == OutcomeWin
			if won != (want == 0) {
				t.Fatalf("outcome = %v with %d seconds left", snap.Outcome, snap.TimeLeft)
			}
		})
	}
}

func TestWinAfterDurationTicks(t *testing.T) {
	s, sched, rec := newTestSession()
	s.Start()

	for i := 0; i < 30; i++ {
		sched.tick()
	}

	snap := s.Snapshot()
	if snap.Outcome != OutcomeWin || snap.Phase != PhaseEnded {
		t.Fatalf("outcome=%v phase=%v, want win/ended", snap.Outcome, snap.Phase)
	}
	if snap.Score != 0 || snap.Health != 100 {
		t.Fatalf("score=%d health=%d, want 0 and 100", snap.Score, snap.Health)
	}
	if rec.lastMessage() != MessageWin {
		t.Fatalf("message = %q, want %q", rec.lastMessage(), MessageWin)
	}
	if !slices.Equal(rec.ends, []Outcome{OutcomeWin}) {
		t.Fatalf("end cues = %v, want [win]", rec.ends)
	}

	// The quote arrives after the delay.
	if len(sched.after) != 1 || sched.after[0].period != config.Defaults().QuoteDelayDuration() {
		t.Fatalf("quote timers = %d, want one after %v", len(sched.after), config.Defaults().QuoteDelayDuration())
	}
	sched.fire()
	if !slices.Contains(Quotes, rec.lastMessage()) {
		t.Fatalf("message after delay = %q, want a quote", rec.lastMessage())
	}
}

func TestLossAfterTenMisses(t *testing.T) {
	s, sched, rec := newTestSession()
	s.Start()
	sched.tick() // Some time has passed, the outcome does not depend on it.

	for i := 0; i < 10; i++ {
		s.state.Hearts = append(s.state.Hearts, doomedHeart())
		sched.frame()
	}

	snap := s.Snapshot()
	if snap.Health != 0 || snap.Outcome != OutcomeLoss {
		t.Fatalf("health=%d outcome=%v, want 0/loss", snap.Health, snap.Outcome)
	}
	if snap.TimeLeft != 29 {
		t.Fatalf("time left = %d, want 29", snap.TimeLeft)
	}
	if rec.misses != 10 {
		t.Fatalf("miss cues = %d, want 10", rec.misses)
	}
	if rec.lastMessage() != MessageLoss {
		t.Fatalf("message = %q, want %q", rec.lastMessage(), MessageLoss)
	}
	if len(sched.after) != 0 {
		t.Fatal("loss scheduled a quote")
	}
}

// Misses in a single frame stop counting once the session is over.
func TestManyMissesInOneFrame(t *testing.T) {
	s, sched, rec := newTestSession()
	s.Start()

	for i := 0; i < 15; i++ {
		s.state.Hearts = append(s.state.Hearts, doomedHeart())
	}
	sched.frame()

	snap := s.Snapshot()
	if snap.Health != 0 || snap.Outcome != OutcomeLoss {
		t.Fatalf("health=%d outcome=%v, want 0/loss", snap.Health, snap.Outcome)
	}
	if rec.misses != 10 {
		t.Fatalf("miss cues = %d, want 10", rec.misses)
	}
	if snap.Hearts != 0 {
		t.Fatalf("hearts = %d, want cleared", snap.Hearts)
	}
}

func TestOutcomeExclusive(t *testing.T) {
	s, sched, rec := newTestSession()
	s.Start()

	for i := 0; i < 10; i++ {
		s.state.Hearts = append(s.state.Hearts, doomedHeart())
		sched.frame()
	}
	// The clock was cancelled, but a direct call must still be ignored.
	for i := 0; i < 40; i++ {
		s.Tick()
	}
	s.EndGame(true)

	snap := s.Snapshot()
	if snap.Outcome != OutcomeLoss {
		t.Fatalf("outcome = %v, want loss", snap.Outcome)
	}
	if snap.TimeLeft != 30 {
		t.Fatalf("time left = %d after end, want 30", snap.TimeLeft)
	}
	if len(rec.ends) != 1 {
		t.Fatalf("end cues = %v, want one", rec.ends)
	}
}

func TestNoMutationAfterEnd(t *testing.T) {
	s, sched, rec := newTestSession()
	s.Start()
	for i := 0; i < 30; i++ {
		sched.tick()
	}
	before := s.Snapshot()
	messages := len(rec.messages)

	// Feed misses and clicks directly; none may change state.
	s.state.Hearts = append(s.state.Hearts, doomedHeart())
	s.Frame()
	s.advance()
	s.HandleClick(100, 699)
	s.EndGame(false)
	s.state.Hearts = nil

	after := s.Snapshot()
	if after != before {
		t.Fatalf("snapshot changed after end: before %+v after %+v", before, after)
	}
	if len(rec.messages) != messages {
		t.Fatalf("messages after end: %v", rec.messages[messages:])
	}
}

func TestEndCancelsTasks(t *testing.T) {
	s, sched, rec := newTestSession()
	s.Start()
	sched.frame()

	s.EndGame(false)

	if got := sched.live(sched.every); got != 0 {
		t.Fatalf("live clock tasks = %d, want 0", got)
	}
	if got := sched.live(sched.frames); got != 0 {
		t.Fatalf("live frame tasks = %d, want 0", got)
	}

	// Final still: only the pulsing heart.
	if len(rec.drawn) != 1 {
		t.Fatalf("hearts in final still = %d, want 1", len(rec.drawn))
	}
}

func TestHitTest(t *testing.T) {
	tests := []struct {
		name   string
		size   float64
		dx, dy float64
		hit    bool
	}{
		{"centre small", 0.2, 0, 0, true},
		{"centre large", 0.7, 0, 0, true},
		{"inside radius", 0.4, 19, 0, true},
		{"on radius", 0.5, 25, 0, false},
		{"outside radius", 0.4, 0, 20.5, false},
		{"far away", 0.7, 200, 200, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSession()
			s.Start()
			s.state.Hearts = []*object.FallingHeart{{X: 300, Y: 200, Size: tt.size}}

			if got := s.HandleClick(300+tt.dx, 200+tt.dy); got != tt.hit {
				t.Fatalf("HandleClick = %v, want %v", got, tt.hit)
			}
		})
	}
}

func TestClickCollectsHeart(t *testing.T) {
	s, _, rec := newTestSession()
	s.Start()
	s.state.Hearts = []*object.FallingHeart{{X: 100, Y: 100, Size: 0.4}}

	if !s.HandleClick(100, 100) {
		t.Fatal("click at heart centre missed")
	}

	snap := s.Snapshot()
	if snap.Hearts != 0 || snap.Score != 1 {
		t.Fatalf("hearts=%d score=%d, want 0 and 1", snap.Hearts, snap.Score)
	}
	if rec.lastMessage() != "Hearts collected: 1" {
		t.Fatalf("message = %q", rec.lastMessage())
	}
	if rec.catches != 1 {
		t.Fatalf("catch cues = %d, want 1", rec.catches)
	}
}

func TestClickTakesNewestOnly(t *testing.T) {
	s, _, _ := newTestSession()
	s.Start()
	older := &object.FallingHeart{X: 100, Y: 100, Size: 0.6}
	newer := &object.FallingHeart{X: 105, Y: 100, Size: 0.6}
	s.state.Hearts = []*object.FallingHeart{older, newer}

	s.HandleClick(102, 100)

	if len(s.state.Hearts) != 1 || s.state.Hearts[0] != older {
		t.Fatal("click should remove only the newest overlapping heart")
	}
	if s.Snapshot().Score != 1 {
		t.Fatalf("score = %d, want 1", s.Snapshot().Score)
	}
}

func TestScoreMonotonic(t *testing.T) {
	s, _, _ := newTestSession()
	s.Start()
	s.state.Hearts = []*object.FallingHeart{
		{X: 100, Y: 100, Size: 0.4},
		{X: 400, Y: 100, Size: 0.4},
	}

	clicks := []struct {
		x, y float64
		want int
	}{
		{700, 500, 0},
		{100, 100, 1},
		{100, 100, 1},
		{400, 100, 2},
		{400, 100, 2},
	}
	for i, c := range clicks {
		s.HandleClick(c.x, c.y)
		if got := s.Snapshot().Score; got != c.want {
			t.Fatalf("after click %d score = %d, want %d", i, got, c.want)
		}
	}
}

func TestFrameDrawsAndReschedules(t *testing.T) {
	s, sched, rec := newTestSession()
	s.Start()
	s.state.Hearts = []*object.FallingHeart{{X: 100, Y: 100, Size: 0.4}}

	sched.frame()

	if rec.clears != 1 || rec.flushes != 1 {
		t.Fatalf("clears=%d flushes=%d, want 1 and 1", rec.clears, rec.flushes)
	}
	if len(rec.drawn) != 2 {
		t.Fatalf("hearts drawn = %d, want pulse + 1", len(rec.drawn))
	}
	if s.state.Hearts[0].Y != 102 {
		t.Fatalf("heart y = %v, want 102", s.state.Hearts[0].Y)
	}
	if got := sched.live(sched.frames); got != 1 {
		t.Fatalf("next frames = %d, want 1", got)
	}
	if s.pulse.Scale == 1 {
		t.Fatal("pulse did not animate")
	}
}

func TestFrameSpawns(t *testing.T) {
	sched := &manualScheduler{}
	s := NewSession(Options{
		Tuning:    config.Defaults(),
		Rand:      fixedRand{f: 0.01, n: 2},
		Scheduler: sched,
	})
	s.Start()

	sched.frame()

	if len(s.state.Hearts) != 1 {
		t.Fatalf("hearts = %d, want 1", len(s.state.Hearts))
	}
	h := s.state.Hearts[0]
	if h.X != 8 || h.Y != config.DefaultSpawnY+config.DefaultFallSpeed {
		t.Fatalf("heart at (%v, %v), want (8, %v)", h.X, h.Y, config.DefaultSpawnY+config.DefaultFallSpeed)
	}
	if h.Color != object.DefaultPalette[2] {
		t.Fatalf("colour = %v, want palette[2]", h.Color)
	}
}

func TestFlushErrorKeepsPlaying(t *testing.T) {
	s, sched, rec := newTestSession()
	rec.flushErr = errors.New("broken pipe")
	s.Start()

	sched.frame()
	sched.frame()

	if s.Phase() != PhaseActive {
		t.Fatalf("phase = %v, want active", s.Phase())
	}
	if rec.flushes != 2 {
		t.Fatalf("flushes = %d, want 2", rec.flushes)
	}
}

func TestRestart(t *testing.T) {
	s, sched, rec := newTestSession()
	s.Start()
	s.state.Hearts = []*object.FallingHeart{{X: 100, Y: 100, Size: 0.4}}
	s.HandleClick(100, 100)
	for i := 0; i < 30; i++ {
		sched.tick()
	}
	oldClock := sched.every[0]
	oldQuote := sched.after[0]

	// Restart before the quote shows up.
	s.Start()

	if !oldClock.cancelled || !oldQuote.cancelled {
		t.Fatal("restart left old tasks running")
	}
	snap := s.Snapshot()
	want := Snapshot{Health: 100, TimeLeft: 30, Phase: PhaseActive}
	if snap != want {
		t.Fatalf("snapshot = %+v, want %+v", snap, want)
	}

	sched.fire()
	if rec.lastMessage() != MessageStart {
		t.Fatalf("stale quote shown after restart: %q", rec.lastMessage())
	}

	sched.tick()
	if got := s.Snapshot().TimeLeft; got != 29 {
		t.Fatalf("time left = %d, want 29 (one live clock)", got)
	}
}

func TestPulsePersistsAcrossRestart(t *testing.T) {
	s, sched, _ := newTestSession()
	s.Start()
	sched.frame()
	sched.frame()
	scale := s.pulse.Scale

	s.EndGame(true)
	s.Start()

	if s.pulse.Scale != scale {
		t.Fatalf("pulse scale = %v after restart, want %v", s.pulse.Scale, scale)
	}
}

func TestBadPaletteFallsBack(t *testing.T) {
	tuning := config.Defaults()
	tuning.Palette = []string{"not a colour"}
	s := NewSession(Options{Tuning: tuning, Scheduler: &manualScheduler{}})

	if len(s.spawner.Palette) != len(object.DefaultPalette) {
		t.Fatalf("palette size = %d, want default", len(s.spawner.Palette))
	}
}

func TestPartialTuningKeepsCallerFields(t *testing.T) {
	sched := &manualScheduler{}
	s := NewSession(Options{
		Tuning:    config.Tuning{Duration: 5, ViewWidth: 1600},
		Rand:      fixedRand{f: 0.99},
		Scheduler: sched,
	})
	if v := s.View(); v.Width != 1600 || v.Height != config.ViewHeight {
		t.Fatalf("view = %+v, want 1600x%d", v, config.ViewHeight)
	}

	s.Start()
	for i := 0; i < 5; i++ {
		sched.tick()
	}
	if snap := s.Snapshot(); snap.Outcome != OutcomeWin || snap.Health != config.MaxHealth {
		t.Fatalf("after 5 ticks: %+v, want a win at full health", snap)
	}
}
