package loop

import (
	"fmt"
	"slices"
)

// HandleClick catches at most one heart under the logical point (x, y). The
// newest heart wins when several overlap. It reports whether a heart was
// caught.
func (s *Session) HandleClick(x, y float64) bool {
	if s.state.Phase != PhaseActive {
		return false
	}

	for i := len(s.state.Hearts) - 1; i >= 0; i-- {
		if !s.state.Hearts[i].Contains(x, y) {
			continue
		}
		s.state.Hearts = slices.Delete(s.state.Hearts, i, i+1)
		s.state.Score++
		s.presenter.SetMessage(fmt.Sprintf(messageScoreFn, s.state.Score))
		s.effects.Catch()
		return true
	}
	return false
}
