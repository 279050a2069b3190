package loop

import "github.com/tomz197/hearts/internal/object"

// Phase is where a session is in its lifecycle.
type Phase int

const (
	PhaseNotStarted Phase = iota // Created, Start not called yet
	PhaseActive                  // Clock and frames running
	PhaseEnded                   // Outcome recorded, state frozen
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Outcome is the terminal classification of a session.
type Outcome int

const (
	OutcomeUndetermined Outcome = iota
	OutcomeWin                  // Time ran out with health left
	OutcomeLoss                 // Health depleted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUndetermined:
		return "undetermined"
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	default:
		return "unknown"
	}
}

// State is the mutable session state. It is owned by a Session and only
// touched on the scheduler's goroutine.
type State struct {
	Score    int
	Health   int
	TimeLeft int // Seconds
	Phase    Phase
	Outcome  Outcome
	Hearts   []*object.FallingHeart // Insertion order, newest last
}

// Snapshot is a read-only copy of the session counters.
type Snapshot struct {
	Score    int
	Health   int
	TimeLeft int
	Phase    Phase
	Outcome  Outcome
	Hearts   int
}
