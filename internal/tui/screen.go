// Package tui renders the game through tcell, which handles terminal
// capabilities, mouse reporting, and resize events natively.
package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/tomz197/hearts/internal/draw"
	"github.com/tomz197/hearts/internal/input"
	"github.com/tomz197/hearts/internal/loop/client"
	"github.com/tomz197/hearts/internal/loop/config"
	"github.com/tomz197/hearts/internal/object"
)

const hudRows = 2

const keyHint = "SPACE start · Q quit"

var (
	styleHeart   = tcell.StyleDefault.Foreground(rgb(object.DefaultPalette[0])).Bold(true)
	styleHealth  = tcell.StyleDefault.Foreground(rgb(object.DefaultPalette[2]))
	styleTime    = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xffd1e3)).Bold(true)
	styleHint    = tcell.StyleDefault.Dim(true)
	styleMessage = tcell.StyleDefault.Foreground(rgb(object.DefaultPalette[2])).Italic(true)
	styleOverlay = tcell.StyleDefault.Foreground(rgb(object.OutlineColor))
)

// Screen is a client.Terminal backed by a tcell screen.
type Screen struct {
	client.HUD

	screen tcell.Screen
	canvas *draw.Canvas
	events chan input.Event
	box    lipgloss.Style // Overlay frame, rendered without colour
	closer sync.Once

	width, height  int // Render area, clamped
	offCol, offRow int // Render area offset, 0-based
}

// Compile-time check that Screen implements client.Terminal.
var _ client.Terminal = (*Screen)(nil)

// New opens the terminal through tcell.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewWithScreen(s)
}

// NewWithScreen initialises s and starts delivering its events. Tests pass
// a tcell simulation screen.
func NewWithScreen(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.EnableMouse(tcell.MouseButtonEvents)
	s.HideCursor()
	s.Clear()

	// Lipgloss lays out the overlay box; tcell does the colouring.
	plain := lipgloss.NewRenderer(io.Discard)
	plain.SetColorProfile(termenv.Ascii)

	t := &Screen{
		screen: s,
		canvas: draw.NewScaledCanvas(0, 0, config.ViewWidth, config.ViewHeight),
		events: make(chan input.Event, 128),
		box: plain.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Align(lipgloss.Center),
	}
	t.Resize()
	go t.poll()
	return t, nil
}

// Close restores the terminal. The events channel closes afterwards.
func (t *Screen) Close() error {
	t.closer.Do(t.screen.Fini)
	return nil
}

// poll translates tcell events until the screen is finalised.
func (t *Screen) poll() {
	defer close(t.events)
	var held tcell.ButtonMask
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.events <- input.Event{Type: input.EventKey, Key: translateKey(ev)}
		case *tcell.EventMouse:
			buttons := ev.Buttons()
			pressed := buttons&tcell.ButtonPrimary != 0 && held&tcell.ButtonPrimary == 0
			held = buttons
			if pressed {
				x, y := ev.Position()
				t.events <- input.Event{Type: input.EventClick, Col: x + 1, Row: y + 1}
			}
		case *tcell.EventResize:
			t.events <- input.Event{Type: input.EventResize}
		}
	}
}

// translateKey maps a tcell key to a game key.
func translateKey(ev *tcell.EventKey) input.Key {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.KeyQuit
	case tcell.KeyEnter:
		return input.KeyStart
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return input.KeyQuit
		case ' ':
			return input.KeyStart
		}
	}
	return input.KeyOther
}

// Events implements client.Terminal.
func (t *Screen) Events() <-chan input.Event {
	return t.events
}

// Resize implements client.Terminal.
func (t *Screen) Resize() {
	w, h := t.screen.Size()
	width, height, offCol, offRow := client.ClampTermSize(w, h)
	t.width, t.height = width, height
	t.offCol, t.offRow = offCol, offRow
	t.canvas.Resize(width, max(height-hudRows, 0))
	t.canvas.SetOffset(offCol, offRow+1)
}

// SetView implements client.Terminal.
func (t *Screen) SetView(view object.Screen) {
	t.canvas.SetLogicalSize(float64(view.Width), float64(view.Height))
}

// ToLogical implements client.Terminal.
func (t *Screen) ToLogical(col, row int) (x, y float64) {
	return t.canvas.TerminalToLogical(col, row)
}

// Clear implements loop.Surface.
func (t *Screen) Clear() {
	t.canvas.Clear()
}

// DrawHeart implements loop.Surface.
func (t *Screen) DrawHeart(x, y, size float64, color colorful.Color, rotation float64) {
	t.canvas.DrawHeart(x, y, size, rotation, color, object.OutlineColor)
}

// Flush copies the canvas and the HUD into tcell's buffer and shows it.
// tcell only sends the cells that changed.
func (t *Screen) Flush() error {
	t.screen.Clear()
	if t.width > 0 && t.height >= hudRows {
		t.blit()
		t.drawStatus()
		t.drawMessage()
		t.drawOverlay()
	}
	t.screen.Show()
	return nil
}

// blit paints every canvas cell as a half block.
func (t *Screen) blit() {
	for row := 0; row < t.canvas.TerminalHeight(); row++ {
		for col := 0; col < t.canvas.TerminalWidth(); col++ {
			top, bottom := t.canvas.Cell(col, row)
			r, style := halfBlock(top, bottom)
			t.screen.SetContent(t.offCol+col, t.offRow+1+row, r, nil, style)
		}
	}
}

// halfBlock picks the character and colours showing two stacked pixels.
func halfBlock(top, bottom draw.Pixel) (rune, tcell.Style) {
	switch {
	case top.Set && bottom.Set:
		return draw.BlockUpperHalf, tcell.StyleDefault.Foreground(pixelColor(top)).Background(pixelColor(bottom))
	case top.Set:
		return draw.BlockUpperHalf, tcell.StyleDefault.Foreground(pixelColor(top))
	case bottom.Set:
		return draw.BlockLowerHalf, tcell.StyleDefault.Foreground(pixelColor(bottom))
	default:
		return draw.BlockEmpty, tcell.StyleDefault
	}
}

func (t *Screen) drawStatus() {
	left := "♥ " + t.HealthBar(10) + " " + t.HealthText()
	right := t.TimeText()
	t.puts(0, 0, "♥", styleHeart)
	t.puts(2, 0, strings.TrimPrefix(left, "♥ "), styleHealth)

	leftW, rightW, hintW := width(left), width(right), width(keyHint)
	if gap := t.width - leftW - rightW - hintW; gap >= 4 {
		t.puts(leftW+gap/2, 0, keyHint, styleHint)
	}
	t.puts(max(t.width-rightW, leftW+1), 0, right, styleTime)
}

func (t *Screen) drawMessage() {
	msg := t.Message
	if width(msg) > t.width {
		msg = string([]rune(msg)[:t.width])
	}
	t.puts(max((t.width-width(msg))/2, 0), t.height-1, msg, styleMessage)
}

func (t *Screen) drawOverlay() {
	if len(t.Overlay) == 0 {
		return
	}
	lines := strings.Split(t.box.Render(strings.Join(t.Overlay, "\n")), "\n")
	boxW := 0
	for _, line := range lines {
		boxW = max(boxW, width(line))
	}
	col := max((t.width-boxW)/2, 0)
	row := max((t.height-len(lines))/2, 0)
	for i, line := range lines {
		// Pad so the box hides the playfield behind it.
		t.puts(col, row+i, line+strings.Repeat(" ", boxW-width(line)), styleOverlay)
	}
}

// puts writes s at a position relative to the render area, clipped to it.
func (t *Screen) puts(col, row int, s string, style tcell.Style) {
	if row < 0 || row >= t.height {
		return
	}
	for _, r := range s {
		if col >= t.width {
			return
		}
		if col >= 0 {
			t.screen.SetContent(t.offCol+col, t.offRow+row, r, nil, style)
		}
		col++
	}
}

func width(s string) int {
	return len([]rune(s))
}

func pixelColor(p draw.Pixel) tcell.Color {
	return tcell.NewRGBColor(int32(p.R), int32(p.G), int32(p.B))
}

func rgb(c colorful.Color) tcell.Color {
	return pixelColor(draw.PixelOf(c))
}
