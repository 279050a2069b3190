// Package server tracks the clients connected to a multi-session host (the
// SSH server) so they can be told to leave before the process stops. Every
// client plays its own private game; nothing is shared between them.
package server

import (
	"sync"
	"time"
)

// ClientHandle represents a client's registration.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to the client
}

// ClientEvent represents an event sent from the host to a client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// Registry is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
	closing      bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
	}
}

// RegisterClient registers a new client and returns its handle. A client
// that registers while the registry is shutting down is told to leave
// straight away.
func (r *Registry) RegisterClient(username string) *ClientHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle := &ClientHandle{
		ID:       r.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	r.nextClientID++
	r.clients[handle.ID] = handle

	if r.closing {
		handle.EventsCh <- ClientEvent{Type: EventServerShutdown}
	}
	return handle
}

// UnregisterClient removes a client and closes its event channel. Unknown
// IDs are ignored.
func (r *Registry) UnregisterClient(clientID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.clients[clientID]
	if !ok {
		return
	}
	delete(r.clients, clientID)
	close(handle.EventsCh)
}

// Count returns the number of registered clients.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Shutdown notifies all connected clients about the shutdown and waits for
// them to disconnect, up to the given timeout. It reports whether every
// client left in time.
func (r *Registry) Shutdown(timeout time.Duration) bool {
	r.mu.Lock()
	r.closing = true
	for _, handle := range r.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	r.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if r.Count() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}
