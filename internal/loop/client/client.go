// Package client drives one player's game on a terminal: it owns the event
// loop, feeds input into the session, and handles the screens around it.
package client

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/hearts/internal/input"
	"github.com/tomz197/hearts/internal/loop"
	"github.com/tomz197/hearts/internal/loop/config"
	"github.com/tomz197/hearts/internal/loop/server"
	"github.com/tomz197/hearts/internal/object"
)

// Terminal is the display and input device a client drives.
type Terminal interface {
	loop.Surface
	loop.Presenter
	// SetOverlay shows a centred notice; no lines hide it.
	SetOverlay(lines ...string)
	// Events delivers key, click and resize events. It is closed when the
	// input goes away.
	Events() <-chan input.Event
	// Resize re-reads the terminal size and re-lays out the screen.
	Resize()
	// SetView sets the logical viewport the session draws in.
	SetView(view object.Screen)
	// ToLogical maps a 1-based terminal cell to viewport coordinates.
	ToLogical(col, row int) (x, y float64)
}

// ClientOptions configures the client.
type ClientOptions struct {
	Tuning     config.Tuning
	Rand       object.Rand
	Effects    loop.Effects
	Logger     *log.Logger
	Registry   *server.Registry // Optional, set by multi-session hosts
	Username   string
	Inactivity bool // Warn and then disconnect idle players
}

// Client handles rendering and input for a single player.
type Client struct {
	term     Terminal
	events   *loop.EventLoop
	sched    loop.Scheduler
	session  *loop.Session
	registry *server.Registry
	handle   *server.ClientHandle
	state    *ClientState
	tuning   config.Tuning
	opts     ClientOptions
	logger   *log.Logger
	now      func() time.Time
	quit     func()
}

// NewClient creates a client for the given terminal. When a registry is
// set the client registers with it straight away.
func NewClient(term Terminal, opts ClientOptions) *Client {
	events := loop.NewEventLoop(config.FrameInterval)
	c := newClient(term, events, opts)
	c.events = events
	return c
}

func newClient(term Terminal, sched loop.Scheduler, opts ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Username != "" {
		logger = logger.With("user", opts.Username)
	}
	tuning := opts.Tuning.WithDefaults()

	c := &Client{
		term:     term,
		sched:    sched,
		registry: opts.Registry,
		tuning:   tuning,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		quit:     func() {},
	}
	c.state = NewClientState(c.now())
	c.session = loop.NewSession(loop.Options{
		Tuning:    tuning,
		Rand:      opts.Rand,
		Scheduler: sched,
		Surface:   term,
		Presenter: term,
		Effects:   opts.Effects,
		Logger:    logger,
	})
	term.SetView(c.session.View())
	if c.registry != nil {
		c.handle = c.registry.RegisterClient(opts.Username)
	}
	return c
}

// Run starts the client loop. Blocks until the player quits, the input
// closes, or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.quit = cancel

	if c.handle != nil {
		defer c.registry.UnregisterClient(c.handle.ID)
	}

	c.events.Post(c.setup)
	go c.pump(ctx)

	err := c.events.Run(ctx)

	// The loop has stopped, so the session can be read from here.
	snap := c.session.Snapshot()
	c.logger.Info("client finished", "phase", snap.Phase, "outcome", snap.Outcome, "score", snap.Score)
	if err != nil {
		return fmt.Errorf("event loop: %w", err)
	}
	return nil
}

// setup runs first on the loop goroutine.
func (c *Client) setup() {
	c.term.Resize()
	c.refreshOverlay()
	c.sched.Every(time.Second, c.everySecond)
}

// pump forwards terminal and host events into the loop.
func (c *Client) pump(ctx context.Context) {
	var hostEvents <-chan server.ClientEvent
	if c.handle != nil {
		hostEvents = c.handle.EventsCh
	}
	termEvents := c.term.Events()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-termEvents:
			if !ok {
				c.events.Post(c.quit)
				return
			}
			c.events.Post(func() { c.handleInput(ev) })
		case ev, ok := <-hostEvents:
			if !ok {
				hostEvents = nil
				continue
			}
			c.events.Post(func() { c.handleHostEvent(ev) })
		}
	}
}

// handleInput reacts to one terminal event.
func (c *Client) handleInput(ev input.Event) {
	if ev.Type == input.EventResize {
		c.term.Resize()
		c.redraw()
		return
	}

	c.state.lastInput = c.now()
	if c.state.isInactive {
		c.state.isInactive = false
		c.refreshOverlay()
	}

	switch ev.Type {
	case input.EventKey:
		switch ev.Key {
		case input.KeyQuit:
			c.quit()
		case input.KeyStart:
			c.start()
		}
	case input.EventClick:
		if c.state.Screen != ScreenPlaying {
			return
		}
		x, y := c.term.ToLogical(ev.Col, ev.Row)
		c.session.HandleClick(x, y)
	}
}

// handleHostEvent reacts to an event from the registry.
func (c *Client) handleHostEvent(ev server.ClientEvent) {
	switch ev.Type {
	case server.EventServerShutdown:
		if c.state.Screen == ScreenShutdown {
			return
		}
		c.state.Screen = ScreenShutdown
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
		c.logger.Info("host shutting down, client notified")
		c.refreshOverlay()
	}
}

// start begins a session from the title screen, or restarts one that ended.
func (c *Client) start() {
	switch {
	case c.state.Screen == ScreenShutdown:
		return
	case c.state.Screen == ScreenTitle, c.session.Phase() == loop.PhaseEnded:
		c.state.Screen = ScreenPlaying
		c.session.Start()
		c.refreshOverlay()
	}
}

// everySecond polls the terminal size and runs the inactivity and shutdown
// countdowns.
func (c *Client) everySecond() {
	c.term.Resize()

	switch {
	case c.state.Screen == ScreenShutdown:
		c.state.shutdownTimer--
		if c.state.shutdownTimer <= 0 {
			c.quit()
			return
		}
	case c.opts.Inactivity:
		idle := c.now().Sub(c.state.lastInput)
		if idle > config.InactivityDisconnectUser*time.Second {
			c.logger.Info("disconnecting inactive client", "idle", idle.Round(time.Second))
			c.quit()
			return
		}
		if idle > config.InactivityWarnUser*time.Second {
			c.state.isInactive = true
		}
	}
	c.refreshOverlay()
}

// refreshOverlay shows the notice that matches the client state.
func (c *Client) refreshOverlay() {
	switch {
	case c.state.Screen == ScreenShutdown:
		c.term.SetOverlay(
			"SERVER SHUTTING DOWN",
			"",
			"The server is restarting for maintenance.",
			"Please reconnect in a moment.",
			"",
			fmt.Sprintf("Disconnecting in %d seconds...", c.state.shutdownTimer),
			"",
			"Press Q to disconnect now",
		)
	case c.state.isInactive:
		left := config.InactivityDisconnectUser - int(c.now().Sub(c.state.lastInput).Seconds())
		c.term.SetOverlay(
			"INACTIVITY WARNING",
			"",
			fmt.Sprintf("You will be disconnected in %d seconds.", max(left, 0)),
			"",
			"Press any key to continue",
		)
	case c.state.Screen == ScreenTitle:
		c.term.SetOverlay(c.titleLines()...)
	default:
		c.term.SetOverlay()
	}
	c.redraw()
}

// redraw flushes the terminal when no frame loop is doing it.
func (c *Client) redraw() {
	if c.session.Phase() == loop.PhaseActive {
		return
	}
	if err := c.term.Flush(); err != nil {
		c.logger.Warn("redraw failed", "err", err)
	}
}

func (c *Client) titleLines() []string {
	return []string{
		"♥  H E A R T   C A T C H  ♥",
		"",
		"Click the falling hearts before they slip away.",
		fmt.Sprintf("Every heart that escapes costs %d%% health.", c.tuning.MissPenalty),
		fmt.Sprintf("Last %d seconds to win a sweet quote.", c.tuning.Duration),
		"",
		"Mouse  . . . . Catch",
		"SPACE  . . . . Start",
		"Q  . . . . . .  Quit",
		"",
		">>  Press SPACE to Start  <<",
	}
}
