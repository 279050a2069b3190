package client

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/tomz197/hearts/internal/draw"
	"github.com/tomz197/hearts/internal/input"
	"github.com/tomz197/hearts/internal/loop/config"
	"github.com/tomz197/hearts/internal/object"
)

// hudRows is the number of terminal rows taken by the status line and the
// message line.
const hudRows = 2

const keyHint = "SPACE start · Q quit"

// hudStyles are the lipgloss styles of the text around the playfield.
type hudStyles struct {
	plain   lipgloss.Style
	heart   lipgloss.Style
	health  lipgloss.Style
	time    lipgloss.Style
	hint    lipgloss.Style
	message lipgloss.Style
	overlay lipgloss.Style
}

func newHUDStyles(r *lipgloss.Renderer) hudStyles {
	return hudStyles{
		plain:   r.NewStyle(),
		heart:   r.NewStyle().Foreground(lipgloss.Color("#ff4081")).Bold(true),
		health:  r.NewStyle().Foreground(lipgloss.Color("#ff79b0")),
		time:    r.NewStyle().Foreground(lipgloss.Color("#ffd1e3")).Bold(true),
		hint:    r.NewStyle().Faint(true),
		message: r.NewStyle().Foreground(lipgloss.Color("#ff79b0")).Italic(true),
		overlay: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#d81b60")).
			Padding(0, 2).
			Align(lipgloss.Center),
	}
}

// ANSITerminal renders to any writer with raw escape sequences and reads
// keys and mouse reports from any reader. It serves SSH sessions and local
// terminals in raw mode.
type ANSITerminal struct {
	HUD

	w           io.Writer
	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter // Accumulates UI text for chunked output
	stream      *input.Stream
	sizeFunc    draw.TermSizeFunc
	styles      hudStyles

	width, height  int // Render area, clamped
	offCol, offRow int // Render area offset, 0-based
	needClear      bool
}

// Compile-time check that ANSITerminal implements Terminal.
var _ Terminal = (*ANSITerminal)(nil)

// NewANSITerminal creates a terminal reading input from r and drawing to w.
// A nil sizeFunc reads the size of the process's stdout.
func NewANSITerminal(r io.Reader, w io.Writer, sizeFunc draw.TermSizeFunc) *ANSITerminal {
	if sizeFunc == nil {
		sizeFunc = draw.DefaultTermSizeFunc
	}

	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(termenv.TrueColor)

	t := &ANSITerminal{
		w:           w,
		canvas:      draw.NewScaledCanvas(0, 0, config.ViewWidth, config.ViewHeight),
		chunkWriter: draw.NewChunkWriter(w, 0, 0),
		stream:      input.StartStream(r),
		sizeFunc:    sizeFunc,
		styles:      newHUDStyles(renderer),
		needClear:   true,
	}
	t.Resize()
	return t
}

// Open prepares the terminal: hidden cursor, mouse reporting, blank screen.
func (t *ANSITerminal) Open() {
	draw.HideCursor(t.w)
	draw.EnableMouse(t.w)
	draw.ClearScreen(t.w)
}

// Close restores the cursor and turns mouse reporting off.
func (t *ANSITerminal) Close() error {
	draw.DisableMouse(t.w)
	draw.ClearScreen(t.w)
	draw.ShowCursor(t.w)
	return nil
}

// Events implements Terminal.
func (t *ANSITerminal) Events() <-chan input.Event {
	return t.stream.Events()
}

// Resize handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new render area.
func (t *ANSITerminal) Resize() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(t.sizeFunc)
	if err != nil {
		return
	}
	width, height, offCol, offRow := ClampTermSize(termWidth, termHeight)
	if width == t.width && height == t.height && offCol == t.offCol && offRow == t.offRow {
		return
	}

	t.width, t.height = width, height
	t.offCol, t.offRow = offCol, offRow
	t.canvas.Resize(width, max(height-hudRows, 0))
	t.canvas.SetOffset(offCol, offRow+1)
	t.chunkWriter.SetOffset(offCol, offRow)
	t.needClear = true
}

// ClampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func ClampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(max(termWidth, 0), config.MaxTermWidth)
	renderHeight = min(max(termHeight, 0), config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// SetView implements Terminal.
func (t *ANSITerminal) SetView(view object.Screen) {
	t.canvas.SetLogicalSize(float64(view.Width), float64(view.Height))
}

// ToLogical implements Terminal.
func (t *ANSITerminal) ToLogical(col, row int) (x, y float64) {
	return t.canvas.TerminalToLogical(col, row)
}

// Clear implements loop.Surface.
func (t *ANSITerminal) Clear() {
	t.canvas.Clear()
}

// DrawHeart implements loop.Surface.
func (t *ANSITerminal) DrawHeart(x, y, size float64, color colorful.Color, rotation float64) {
	t.canvas.DrawHeart(x, y, size, rotation, color, object.OutlineColor)
}

// Flush draws the canvas, the status lines and the overlay, then writes
// everything in one go.
func (t *ANSITerminal) Flush() error {
	// When the layout or the overlay changed, clear the terminal so nothing
	// from the previous screen persists.
	if t.TakeOverlayChange() || t.needClear {
		t.chunkWriter.WriteString("\033[0m\033[H\033[2J")
		t.canvas.ForceRedraw()
		t.needClear = false
	}
	if t.width == 0 || t.height < hudRows {
		return t.chunkWriter.Flush()
	}

	if err := t.canvas.Render(t.chunkWriter); err != nil {
		return err
	}
	t.drawStatus()
	t.drawMessage()
	t.drawOverlay()
	return t.chunkWriter.Flush()
}

// drawStatus writes the top line: health on the left, time on the right,
// the key hint in between when it fits. The line is padded to the full
// width so shorter values overwrite longer ones.
func (t *ANSITerminal) drawStatus() {
	left := t.styles.heart.Render("♥") + " " +
		t.styles.health.Render(t.HealthBar(10)+" "+t.HealthText())
	right := t.styles.time.Render(t.TimeText())
	hint := t.styles.hint.Render(keyHint)

	used := lipgloss.Width(left) + lipgloss.Width(right)
	var line string
	if gap := t.width - used - lipgloss.Width(hint) - 2; gap >= 2 {
		line = left + strings.Repeat(" ", gap/2+1) + hint + strings.Repeat(" ", gap-gap/2+1) + right
	} else {
		line = left + strings.Repeat(" ", max(t.width-used, 1)) + right
	}
	t.chunkWriter.WriteAt(1, 1, t.styles.plain.MaxWidth(t.width).Render(line))
}

// drawMessage writes the dialogue line centred on the bottom row.
func (t *ANSITerminal) drawMessage() {
	msg := t.styles.message.MaxWidth(t.width).Render(t.Message)
	pad := max((t.width-lipgloss.Width(msg))/2, 0)
	t.chunkWriter.WriteAt(1, t.height, strings.Repeat(" ", t.width))
	t.chunkWriter.WriteAt(1+pad, t.height, msg)
}

// drawOverlay writes the notice box centred over the playfield.
func (t *ANSITerminal) drawOverlay() {
	if len(t.Overlay) == 0 {
		return
	}
	box := t.styles.overlay.Render(strings.Join(t.Overlay, "\n"))
	lines := strings.Split(box, "\n")
	col := max((t.width-lipgloss.Width(box))/2, 0) + 1
	row := max((t.height-len(lines))/2, 0) + 1
	for i, line := range lines {
		if row+i > t.height {
			break
		}
		t.chunkWriter.WriteAt(col, row+i, line)
	}
}
