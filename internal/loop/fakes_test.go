package loop

import (
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/hearts/internal/loop/config"
	"github.com/tomz197/hearts/internal/object"
)

// manualTask is a Task driven by manualScheduler.
type manualTask struct {
	fn        func()
	period    time.Duration
	cancelled bool
}

func (t *manualTask) Cancel() { t.cancelled = true }

// manualScheduler lets tests advance frames, clock ticks and timers by hand.
type manualScheduler struct {
	frames []*manualTask
	every  []*manualTask
	after  []*manualTask
}

func (m *manualScheduler) NextFrame(fn func()) Task {
	t := &manualTask{fn: fn}
	m.frames = append(m.frames, t)
	return t
}

func (m *manualScheduler) Every(d time.Duration, fn func()) Task {
	t := &manualTask{fn: fn, period: d}
	m.every = append(m.every, t)
	return t
}

func (m *manualScheduler) After(d time.Duration, fn func()) Task {
	t := &manualTask{fn: fn, period: d}
	m.after = append(m.after, t)
	return t
}

// frame runs the callbacks queued for the next refresh.
func (m *manualScheduler) frame() {
	pending := m.frames
	m.frames = nil
	for _, t := range pending {
		if !t.cancelled {
			t.fn()
		}
	}
}

// tick fires every periodic task once.
func (m *manualScheduler) tick() {
	for _, t := range append([]*manualTask(nil), m.every...) {
		if !t.cancelled {
			t.fn()
		}
	}
}

// fire runs every pending one-shot timer.
func (m *manualScheduler) fire() {
	pending := m.after
	m.after = nil
	for _, t := range pending {
		if !t.cancelled {
			t.fn()
		}
	}
}

func (m *manualScheduler) live(tasks []*manualTask) int {
	n := 0
	for _, t := range tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// recorder captures everything the session presents.
type recorder struct {
	clears   int
	drawn    []float64 // Sizes of hearts drawn since the last Clear
	flushes  int
	flushErr error

	health   []int
	times    []int
	messages []string

	catches int
	misses  int
	ends    []Outcome
}

func (r *recorder) Clear() {
	r.clears++
	r.drawn = r.drawn[:0]
}

func (r *recorder) DrawHeart(_, _, size float64, _ colorful.Color, _ float64) {
	r.drawn = append(r.drawn, size)
}

func (r *recorder) Flush() error {
	r.flushes++
	return r.flushErr
}

func (r *recorder) SetHealth(percent int) { r.health = append(r.health, percent) }

func (r *recorder) SetTime(seconds int) { r.times = append(r.times, seconds) }

func (r *recorder) SetMessage(text string) { r.messages = append(r.messages, text) }

func (r *recorder) Catch() { r.catches++ }

func (r *recorder) Miss() { r.misses++ }

func (r *recorder) End(o Outcome) { r.ends = append(r.ends, o) }

func (r *recorder) lastMessage() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

// fixedRand always returns the same values. A float of 0.99 never spawns.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }

func (r fixedRand) Intn(n int) int { return r.n % n }

// newTestSession builds a started-ready session that never spawns on its own.
func newTestSession() (*Session, *manualScheduler, *recorder) {
	sched := &manualScheduler{}
	rec := &recorder{}
	s := NewSession(Options{
		Tuning:    config.Defaults(),
		Rand:      fixedRand{f: 0.99},
		Scheduler: sched,
		Surface:   rec,
		Presenter: rec,
		Effects:   rec,
	})
	return s, sched, rec
}

// doomedHeart is a heart that exits the viewport on the next frame.
func doomedHeart() *object.FallingHeart {
	return &object.FallingHeart{
		X:    100,
		Y:    config.ViewHeight + config.DefaultExitMargin - 1,
		Size: 0.4,
	}
}
