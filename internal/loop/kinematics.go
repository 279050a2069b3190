package loop

import "slices"

// advance moves every falling heart one frame and retires the ones that fell
// out of view. Hearts are visited newest first so removals keep the
// remaining indices valid.
func (s *Session) advance() {
	height := float64(s.view.Height)
	for i := len(s.state.Hearts) - 1; i >= 0; i-- {
		if s.state.Phase != PhaseActive {
			return
		}
		heart := s.state.Hearts[i]
		heart.Step(s.tuning.FallSpeed)
		if !heart.Exited(height, s.tuning.ExitMargin) {
			continue
		}
		s.state.Hearts = slices.Delete(s.state.Hearts, i, i+1)
		s.miss()
	}
}

// miss charges the penalty for a heart that got away.
func (s *Session) miss() {
	s.state.Health = max(s.state.Health-s.tuning.MissPenalty, 0)
	s.presenter.SetHealth(s.state.Health)
	s.effects.Miss()
	s.logger.Debug("heart missed", "health", s.state.Health)

	if s.state.Health == 0 {
		s.EndGame(false)
	}
}
