package loop

import (
	"context"
	"sync"
	"time"
)

// Task is a scheduled callback that can be cancelled.
type Task interface {
	// Cancel stops the task. Once Cancel returns, the callback never runs
	// again, even if a tick was already queued. Safe to call more than once.
	Cancel()
}

// Scheduler runs callbacks on a single logical thread.
type Scheduler interface {
	// NextFrame runs fn once on the next display refresh.
	NextFrame(fn func()) Task
	// Every runs fn every d until cancelled.
	Every(d time.Duration, fn func()) Task
	// After runs fn once after d unless cancelled first.
	After(d time.Duration, fn func()) Task
}

// task is shared by every EventLoop schedule. cancelled is only touched on
// the loop goroutine.
type task struct {
	fn        func()
	cancelled bool
	stop      chan struct{}
	stopOnce  sync.Once
}

func newTask(fn func()) *task {
	return &task{fn: fn, stop: make(chan struct{})}
}

func (t *task) Cancel() {
	t.cancelled = true
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *task) run() {
	if !t.cancelled {
		t.fn()
	}
}

// EventLoop is the real Scheduler: one goroutine (the one calling Run)
// executes every callback, so game state needs no locking. Timer goroutines
// only post into the loop. Scheduler methods and Task.Cancel must be called
// from the loop goroutine; Post is safe from anywhere.
type EventLoop struct {
	frameInterval time.Duration
	queue         chan func()
	frames        []*task
	done          chan struct{}
	doneOnce      sync.Once
}

// Compile-time check that EventLoop implements Scheduler.
var _ Scheduler = (*EventLoop)(nil)

// NewEventLoop creates a loop whose frames refresh at the given interval.
func NewEventLoop(frameInterval time.Duration) *EventLoop {
	return &EventLoop{
		frameInterval: frameInterval,
		queue:         make(chan func(), 256),
		done:          make(chan struct{}),
	}
}

// Run executes callbacks until the context is cancelled. It returns nil on
// cancellation.
func (l *EventLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()
	defer l.doneOnce.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.queue:
			fn()
		case <-ticker.C:
			l.runFrames()
		}
	}
}

// Post queues fn to run on the loop goroutine. It drops fn if the loop has
// stopped.
func (l *EventLoop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// runFrames runs the callbacks registered for this refresh. Callbacks that
// reschedule themselves land in the next refresh.
func (l *EventLoop) runFrames() {
	pending := l.frames
	l.frames = nil
	for _, t := range pending {
		t.run()
	}
}

// NextFrame implements Scheduler.
func (l *EventLoop) NextFrame(fn func()) Task {
	t := newTask(fn)
	l.frames = append(l.frames, t)
	return t
}

// Every implements Scheduler.
func (l *EventLoop) Every(d time.Duration, fn func()) Task {
	t := newTask(fn)
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				l.Post(t.run)
			}
		}
	}()
	return t
}

// After implements Scheduler.
func (l *EventLoop) After(d time.Duration, fn func()) Task {
	t := newTask(fn)
	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-t.stop:
		case <-l.done:
		case <-timer.C:
			l.Post(t.run)
		}
	}()
	return t
}
