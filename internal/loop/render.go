package loop

// Frame draws one animation frame and schedules the next. Spawning and the
// falling-heart update run here, so the game advances at the refresh rate.
func (s *Session) Frame() {
	if s.state.Phase != PhaseActive {
		return
	}
	s.frame = nil

	s.surface.Clear()
	s.pulse.Animate()
	s.drawPulse()

	s.state.Hearts = s.spawner.TrySpawn(s.state.Hearts, float64(s.view.Width), s.rng)
	s.advance()
	if s.state.Phase != PhaseActive {
		// A miss ended the session; EndGame already drew the final still.
		return
	}

	for _, heart := range s.state.Hearts {
		s.surface.DrawHeart(heart.X, heart.Y, heart.Size, heart.Color, heart.Rotation)
	}
	s.flush()

	s.frame = s.sched.NextFrame(s.Frame)
}

func (s *Session) drawPulse() {
	s.surface.DrawHeart(s.pulse.X, s.pulse.Y, s.pulse.Scale, s.pulse.Color(), 0)
}

func (s *Session) flush() {
	if err := s.surface.Flush(); err != nil {
		s.logger.Warn("flush failed", "err", err)
	}
}
