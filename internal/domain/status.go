package domain

// Status is a read-only view of the timer for presentation layers.
type Status struct {
	Phase                      Phase       `json:"phase"`
	PhaseLabel                 string      `json:"phase_label"`
	Status                     TimerStatus `json:"status"`
	RemainingSeconds           int         `json:"remaining_seconds"`
	TotalSeconds               int         `json:"total_seconds"`
	Remaining                  string      `json:"remaining"`
	MinutesLeft                int         `json:"minutes_left"`
	Progress                   float64     `json:"progress"`
	WorkSessionsSinceLongBreak int         `json:"work_sessions_since_long_break"`
	LongBreakEvery             int         `json:"long_break_every"`
	CurrentTask                *Task       `json:"current_task,omitempty"`
	Today                      DailyStat   `json:"today"`
	Ambient                    NoiseType   `json:"ambient,omitempty"`
}
