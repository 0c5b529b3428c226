package stats

import (
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
)

// Report is a processed series with its aggregates.
type Report struct {
	Range       TimeRange          `json:"range"`
	Points      []domain.DailyStat `json:"points"`
	Totals      Totals             `json:"totals"`
	ActiveDays  int                `json:"activeDays"`
	DailyAvgMin float64            `json:"dailyAverageMinutes"`
	BestDay     *domain.DailyStat  `json:"bestDay,omitempty"`
}

// Summarize builds the report for r as of now.
func Summarize(history domain.StatsHistory, r TimeRange, now time.Time) Report {
	points := ProcessHistoryDataAt(history, r, now)
	report := Report{
		Range:  r,
		Points: points,
		Totals: CalculateTotals(points),
	}

	for i := range points {
		p := points[i]
		if p.CompletedPomodoros > 0 || p.FocusMinutes > 0 {
			report.ActiveDays++
		}
		if report.BestDay == nil || p.FocusMinutes > report.BestDay.FocusMinutes {
			if p.FocusMinutes > 0 {
				best := p
				report.BestDay = &best
			}
		}
	}
	if len(points) > 0 {
		report.DailyAvgMin = float64(report.Totals.TotalMinutes) / float64(len(points))
	}
	return report
}
