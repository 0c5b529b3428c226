package services

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/stats"
	"github.com/xvierd/pomo-cli/internal/timeutil"
)

// StatsService builds statistics reports from the controller's history.
type StatsService struct {
	pomodoro *PomodoroService
	logger   *log.Logger
	now      func() time.Time
}

// NewStatsService creates a new statistics service.
func NewStatsService(pomodoro *PomodoroService, logger *log.Logger) *StatsService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &StatsService{pomodoro: pomodoro, logger: logger, now: pomodoro.now}
}

// Report returns the statistics for r as of now.
func (s *StatsService) Report(r stats.TimeRange) stats.Report {
	clean, issues := stats.CleanHistory(s.pomodoro.History())
	for _, issue := range issues {
		s.logger.Warn(issue.String())
	}
	return stats.Summarize(clean, r, s.now())
}

// Today returns today's record, zero-valued when nothing was recorded.
func (s *StatsService) Today() domain.DailyStat {
	return s.pomodoro.History().Get(timeutil.FormatDateKey(s.now()))
}

// FormatDate renders a day key relative to today.
func (s *StatsService) FormatDate(key string) string {
	return stats.FormatDate(key, s.now())
}
