package domain

// DailyStat aggregates the finished focus sessions of one local calendar day.
type DailyStat struct {
	Date               string `json:"date"`
	FocusMinutes       int    `json:"focusMinutes"`
	CompletedPomodoros int    `json:"completedPomodoros"`
}

// StatsHistory maps a YYYY-MM-DD key to that day's statistics.
type StatsHistory map[string]DailyStat

// Get returns the record for a day. Days without a record read as zero.
func (h StatsHistory) Get(dateKey string) DailyStat {
	if stat, ok := h[dateKey]; ok {
		stat.Date = dateKey
		return stat
	}
	return DailyStat{Date: dateKey}
}

// RecordFocus adds one finished focus session of the given length to a day.
func (h StatsHistory) RecordFocus(dateKey string, minutes int) DailyStat {
	stat := h.Get(dateKey)
	stat.FocusMinutes += max(0, minutes)
	stat.CompletedPomodoros++
	h[dateKey] = stat
	return stat
}

// Clone returns an independent copy of the history.
func (h StatsHistory) Clone() StatsHistory {
	out := make(StatsHistory, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
