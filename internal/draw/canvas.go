package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// cell is what one terminal character shows: two stacked sub-pixels.
type cell struct {
	top, bottom Pixel
}

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters. Supports scaling from logical coordinates to actual
// terminal pixels. Render only emits cells that changed since the previous
// Render.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Pixel // Flat slice: [y * termWidth + x]
	prev           []cell  // Cells as of the last Render
	full           bool    // Next Render repaints everything

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height (in sub-pixels)
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder // Buffer for batching render output
	scaledBuf       []Point         // Reusable buffer for fillPolygon scaled points
	intersectionBuf []float64       // Reusable buffer for scanline intersections
	polygonBuf      []Point         // Reusable buffer for polygon point generation
}

// NewCanvas creates a canvas for the given terminal dimensions.
// The canvas has 2x vertical resolution (height*2 sub-pixels).
// No scaling is applied (1:1 mapping).
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.allocate(termWidth, termHeight)
	return c
}

func (c *Canvas) allocate(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]Pixel, c.subPixelHeight*termWidth)
	c.prev = make([]cell, termHeight*termWidth)
	c.full = true
	c.updateScale()
}

func (c *Canvas) updateScale() {
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// A size change forces the next Render to repaint everything.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.allocate(termWidth, termHeight)
	}
}

// SetLogicalSize changes the coordinate space game objects are drawn in.
// A change forces the next Render to repaint everything.
func (c *Canvas) SetLogicalSize(width, height float64) {
	if width == c.logicalWidth && height == c.logicalHeight {
		return
	}
	c.logicalWidth = width
	c.logicalHeight = height
	c.updateScale()
	c.full = true
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.full = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render repaint every non-empty cell. Use it
// after the terminal was cleared underneath the canvas.
func (c *Canvas) ForceRedraw() {
	clear(c.prev)
	c.full = true
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, p Pixel) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = p
	}
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64, col colorful.Color) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	c.setPixel(px, py, PixelOf(col))
}

// Cell returns the two sub-pixels shown by the 0-based terminal cell
// (col, row) of the canvas.
func (c *Canvas) Cell(col, row int) (top, bottom Pixel) {
	if col < 0 || col >= c.termWidth || row < 0 || row >= c.termHeight {
		return Pixel{}, Pixel{}
	}
	return c.pixels[row*2*c.termWidth+col], c.pixels[(row*2+1)*c.termWidth+col]
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col colorful.Color) {
	c.drawLine(p1, p2, PixelOf(col))
}

func (c *Canvas) drawLine(p1, p2 Point, p Pixel) {
	// Scale to pixel coordinates for drawing
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, p)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// StrokePolygon draws the closed outline of a polygon.
func (c *Canvas) StrokePolygon(points []Point, col colorful.Color) {
	if len(points) < 2 {
		return
	}
	p := PixelOf(col)
	n := len(points)
	for i := 0; i < n; i++ {
		c.drawLine(points[i], points[(i+1)%n], p)
	}
}

// FillPolygon fills a polygon using the scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) FillPolygon(points []Point, col colorful.Color) {
	if len(points) < 3 {
		return
	}
	p := PixelOf(col)

	// Reuse or grow scaled points buffer
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	// Scale points to pixel coordinates
	for i, pt := range points {
		scaled[i] = Point{
			X: pt.X * c.scaleX,
			Y: pt.Y * c.scaleY,
		}
	}

	// Find bounding box in pixel space
	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, pt := range scaled {
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	// Scanline fill in pixel space
	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		// Reuse intersection buffer
		intersections := c.intersectionBuf[:0]

		// Find intersections with all edges
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := max(int(math.Ceil(intersections[i])), 0)
			xEnd := min(int(math.Floor(intersections[i+1])), c.termWidth-1)
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, p)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs the canvas to the writer using half-block characters with
// 24-bit colour. Only cells that changed since the last Render are written;
// after ForceRedraw or a resize every non-empty cell is written and the
// caller is expected to have cleared the terminal.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	full := c.full

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			top, bottom := c.Cell(col, row)
			cur := cell{top: top, bottom: bottom}
			idx := row*c.termWidth + col
			if !full && c.prev[idx] == cur {
				continue
			}
			c.prev[idx] = cur
			if full && !top.Set && !bottom.Set {
				continue
			}
			writeCell(&c.renderBuf, col+1+c.offsetCol, row+1+c.offsetRow, cur)
		}
	}
	c.full = false

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// writeCell appends the ANSI sequence that paints one terminal cell.
func writeCell(b *strings.Builder, col, row int, c cell) {
	fmt.Fprintf(b, "\033[%d;%dH", row, col)
	switch {
	case c.top.Set && c.bottom.Set:
		fmt.Fprintf(b, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm%c",
			c.top.R, c.top.G, c.top.B, c.bottom.R, c.bottom.G, c.bottom.B, BlockUpperHalf)
	case c.top.Set:
		fmt.Fprintf(b, "\033[38;2;%d;%d;%dm%c", c.top.R, c.top.G, c.top.B, BlockUpperHalf)
	case c.bottom.Set:
		fmt.Fprintf(b, "\033[38;2;%d;%d;%dm%c", c.bottom.R, c.bottom.G, c.bottom.B, BlockLowerHalf)
	default:
		b.WriteRune(BlockEmpty)
		return
	}
	b.WriteString("\033[0m")
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution, in sub-pixels).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1 + c.offsetCol, py/2 + 1 + c.offsetRow
}

// TerminalToLogical converts a 1-based terminal position to the logical
// coordinates at the centre of that cell. It is the inverse used for mouse
// clicks.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	if c.scaleX == 0 || c.scaleY == 0 {
		return 0, 0
	}
	px := float64(col-1-c.offsetCol) + 0.5
	py := float64((row-1-c.offsetRow)*2) + 1
	return px / c.scaleX, py / c.scaleY
}
