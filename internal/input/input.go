// Package input turns raw terminal bytes into key and mouse events.
package input

import (
	"io"
	"strconv"
	"time"
)

const (
	// maxPending bounds an unfinished escape sequence. SGR mouse reports
	// are far shorter; anything longer is dropped.
	maxPending = 32
	// escTimeout is how long a trailing ESC waits for the rest of a
	// sequence before it counts as the escape key.
	escTimeout = 50 * time.Millisecond
)

// EventType identifies what an Event carries.
type EventType int

const (
	EventKey   EventType = iota // Key press, see Key
	EventClick                  // Primary button press at Col/Row
	EventResize                 // Terminal size changed
)

// Key is a game-level key, not a raw code.
type Key int

const (
	KeyOther Key = iota
	KeyQuit      // q, Q, ESC, Ctrl-C
	KeyStart     // SPACE, ENTER
)

// Event is a single input occurrence. Col and Row are 1-based terminal
// coordinates for clicks.
type Event struct {
	Type EventType
	Key  Key
	Col  int
	Row  int
}

// Stream delivers parsed events from a reader via a channel.
type Stream struct {
	ch chan Event
}

// StartStream spawns goroutines that read from r and parse events until the
// reader fails. The events channel is closed when reading stops.
func StartStream(r io.Reader) *Stream {
	s := &Stream{ch: make(chan Event, 128)}
	chunks := make(chan []byte)
	go readChunks(r, chunks)
	go s.run(chunks)
	return s
}

func readChunks(r io.Reader, out chan<- []byte) {
	defer close(out)
	for {
		buf := make([]byte, 256)
		n, err := r.Read(buf)
		if n > 0 {
			out <- buf[:n]
		}
		if err != nil {
			return
		}
	}
}

// run parses chunks as they arrive. An unfinished sequence that sees no
// more input within escTimeout is resolved by Flush.
func (s *Stream) run(chunks <-chan []byte) {
	defer close(s.ch)
	var p Parser
	var quiet <-chan time.Time
	for {
		select {
		case b, ok := <-chunks:
			if !ok {
				s.send(p.Flush())
				return
			}
			s.send(p.Feed(b))
			quiet = nil
			if p.Pending() {
				quiet = time.After(escTimeout)
			}
		case <-quiet:
			quiet = nil
			s.send(p.Flush())
		}
	}
}

func (s *Stream) send(events []Event) {
	for _, ev := range events {
		s.ch <- ev
	}
}

// Events returns the channel of parsed events.
func (s *Stream) Events() <-chan Event {
	return s.ch
}

// Parser decodes key presses and xterm mouse reports (SGR 1006 and legacy
// X10). Escape sequences split across reads are kept until complete.
type Parser struct {
	pending []byte
}

// Feed parses b and returns every complete event in order.
func (p *Parser) Feed(b []byte) []Event {
	buf := append(p.pending, b...)
	p.pending = nil

	var events []Event
	for i := 0; i < len(buf); {
		if buf[i] != '\x1b' {
			events = appendKey(events, buf[i])
			i++
			continue
		}

		// A trailing ESC may be a sequence split across reads. Flush
		// resolves it if nothing follows.
		if i+1 >= len(buf) {
			p.pending = []byte{'\x1b'}
			break
		}
		if buf[i+1] != '[' {
			events = append(events, Event{Type: EventKey, Key: KeyQuit})
			i++
			continue
		}

		ev, n, ok := parseCSI(buf[i:])
		if !ok {
			// Incomplete sequence, wait for more bytes unless it has
			// grown past any real report. Dropping it resyncs the parser.
			if len(buf)-i <= maxPending {
				p.pending = append([]byte(nil), buf[i:]...)
			}
			break
		}
		if ev != nil {
			events = append(events, *ev)
		}
		i += n
	}
	return events
}

// Pending reports whether Feed is holding an unfinished sequence.
func (p *Parser) Pending() bool {
	return len(p.pending) > 0
}

// Flush resolves whatever Feed is holding once no more input is coming. A
// lone ESC is the escape key; a partial sequence is dropped.
func (p *Parser) Flush() []Event {
	pending := p.pending
	p.pending = nil
	if len(pending) == 1 && pending[0] == '\x1b' {
		return []Event{{Type: EventKey, Key: KeyQuit}}
	}
	return nil
}

// appendKey maps a single byte to a key event.
func appendKey(events []Event, b byte) []Event {
	key := KeyOther
	switch b {
	case 'q', 'Q', 0x03:
		key = KeyQuit
	case ' ', '\r', '\n':
		key = KeyStart
	}
	return append(events, Event{Type: EventKey, Key: key})
}

// parseCSI decodes a sequence starting with ESC [. It returns the event (nil
// for sequences the game ignores), the bytes consumed, and false if the
// sequence is not complete yet.
func parseCSI(b []byte) (*Event, int, bool) {
	if len(b) < 3 {
		return nil, 0, false
	}
	switch b[2] {
	case '<':
		return parseSGRMouse(b)
	case 'M':
		return parseX10Mouse(b)
	}

	// Generic CSI: parameters then a final byte in 0x40..0x7e.
	for i := 2; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			return &Event{Type: EventKey, Key: KeyOther}, i + 1, true
		}
	}
	return nil, 0, false
}

// parseSGRMouse decodes ESC [ < button ; col ; row (M|m).
func parseSGRMouse(b []byte) (*Event, int, bool) {
	end := -1
	for i := 3; i < len(b); i++ {
		if b[i] == 'M' || b[i] == 'm' {
			end = i
			break
		}
		if (b[i] < '0' || b[i] > '9') && b[i] != ';' {
			// Malformed, drop the introducer.
			return nil, 3, true
		}
	}
	if end < 0 {
		return nil, 0, false
	}

	fields := splitParams(b[3:end])
	if len(fields) != 3 || b[end] != 'M' {
		return nil, end + 1, true
	}
	if !isPrimaryPress(fields[0]) {
		return nil, end + 1, true
	}
	return &Event{Type: EventClick, Col: fields[1], Row: fields[2]}, end + 1, true
}

// parseX10Mouse decodes ESC [ M cb cx cy where each byte is offset by 32.
func parseX10Mouse(b []byte) (*Event, int, bool) {
	if len(b) < 6 {
		return nil, 0, false
	}
	button := int(b[3]) - 32
	col := int(b[4]) - 32
	row := int(b[5]) - 32
	if !isPrimaryPress(button) || col < 1 || row < 1 {
		return nil, 6, true
	}
	return &Event{Type: EventClick, Col: col, Row: row}, 6, true
}

// isPrimaryPress reports whether a mouse button code is a left-button press
// without motion or wheel bits. Modifier bits are ignored.
func isPrimaryPress(code int) bool {
	const (
		buttonMask = 0b11
		motionBit  = 32
		wheelBit   = 64
	)
	return code&buttonMask == 0 && code&motionBit == 0 && code&wheelBit == 0
}

func splitParams(b []byte) []int {
	var out []int
	start := 0
	for i := 0; i <= len(b); i++ {
		if i == len(b) || b[i] == ';' {
			n, err := strconv.Atoi(string(b[start:i]))
			if err != nil {
				return nil
			}
			out = append(out, n)
			start = i + 1
		}
	}
	return out
}
