package domain

// Session is the countdown state of the timer.
type Session struct {
	Phase                      Phase       `json:"phase"`
	RemainingSeconds           int         `json:"remainingSeconds"`
	Status                     TimerStatus `json:"status"`
	WorkSessionsSinceLongBreak int         `json:"workSessionsSinceLongBreak"`
}

// NewSession returns an idle work session sized by settings.
func NewSession(settings Settings) Session {
	return Session{
		Phase:            PhaseWork,
		RemainingSeconds: settings.PhaseSeconds(PhaseWork),
		Status:           StatusIdle,
	}
}

// NextPhase computes the phase that follows current and the updated count
// of work sessions since the last long break.
//
// From work, a completed focus session increments the count; reaching
// longBreakEvery yields a long break and resets the count to zero. A skipped
// work phase never counts. Any break returns to work with the count unchanged.
func NextPhase(current Phase, workSessionsSinceLongBreak, longBreakEvery int, completedWorkSession bool) (Phase, int) {
	if current != PhaseWork {
		return PhaseWork, workSessionsSinceLongBreak
	}
	if !completedWorkSession {
		return PhaseShortBreak, workSessionsSinceLongBreak
	}
	n := workSessionsSinceLongBreak + 1
	if n >= longBreakEvery {
		return PhaseLongBreak, 0
	}
	return PhaseShortBreak, n
}

// Progress returns the elapsed share of the phase in [0,1].
func (s Session) Progress(settings Settings) float64 {
	total := settings.PhaseSeconds(s.Phase)
	if total <= 0 {
		return 1
	}
	p := 1 - float64(s.RemainingSeconds)/float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// IsRunning returns true while the countdown is advancing.
func (s Session) IsRunning() bool {
	return s.Status == StatusRunning
}
