package client

import "time"

// ScreenState is what the client is showing around the session.
type ScreenState int

const (
	ScreenTitle    ScreenState = iota // Waiting for the first SPACE
	ScreenPlaying                     // A session exists, active or ended
	ScreenShutdown                    // Host is shutting down
)

// ClientState holds per-connection state that lives outside the session.
type ClientState struct {
	Screen        ScreenState
	lastInput     time.Time // Last key or click
	isInactive    bool      // Inactivity warning shown
	shutdownTimer int       // Seconds left before auto-disconnect on shutdown
}

// NewClientState creates a new initialized client state.
func NewClientState(now time.Time) *ClientState {
	return &ClientState{
		Screen:    ScreenTitle,
		lastInput: now,
	}
}
