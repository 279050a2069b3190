package loop

// Tick counts the session down by one second. The tick that brings the time
// to zero ends the session as a win.
func (s *Session) Tick() {
	if s.state.Phase != PhaseActive {
		return
	}

	if s.state.TimeLeft > 0 {
		s.state.TimeLeft--
		s.presenter.SetTime(s.state.TimeLeft)
	}
	// Ending here rather than one tick later makes a session of D seconds
	// win on its D-th tick.
	if s.state.TimeLeft == 0 {
		s.EndGame(true)
	}
}
