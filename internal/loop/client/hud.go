package client

import (
	"fmt"
	"slices"
	"strings"
)

// HUD holds what the status lines and the overlay show. Terminals embed it
// to implement loop.Presenter.
type HUD struct {
	Health  int      // Percent
	Time    int      // Seconds left
	Message string   // Dialogue line
	Overlay []string // Centred notice, nil when hidden
	dirty   bool     // Overlay changed since last drawn
}

// SetHealth implements loop.Presenter.
func (h *HUD) SetHealth(percent int) {
	h.Health = percent
}

// SetTime implements loop.Presenter.
func (h *HUD) SetTime(secondsLeft int) {
	h.Time = secondsLeft
}

// SetMessage implements loop.Presenter.
func (h *HUD) SetMessage(text string) {
	h.Message = text
}

// SetOverlay shows a centred notice over the playfield. No lines hide it.
func (h *HUD) SetOverlay(lines ...string) {
	if len(lines) == 0 {
		lines = nil
	}
	if !slices.Equal(h.Overlay, lines) {
		h.Overlay = lines
		h.dirty = true
	}
}

// TakeOverlayChange reports whether the overlay changed since the last call.
// Terminals use it to repaint what the old overlay covered.
func (h *HUD) TakeOverlayChange() bool {
	changed := h.dirty
	h.dirty = false
	return changed
}

// HealthBar renders health as a bar of the given width.
func (h *HUD) HealthBar(width int) string {
	if width <= 0 {
		return ""
	}
	filled := max(0, min(width, h.Health*width/100))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// HealthText is the health label, fixed width so shorter values overwrite
// longer ones.
func (h *HUD) HealthText() string {
	return fmt.Sprintf("Health: %3d%%", h.Health)
}

// TimeText is the countdown label, fixed width.
func (h *HUD) TimeText() string {
	return fmt.Sprintf("Time left: %2ds", h.Time)
}
