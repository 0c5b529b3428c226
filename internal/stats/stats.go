// Package stats turns the sparse per-day history into dense, display-ready
// series for a selected time range. Every function is pure and never
// mutates its input.
package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/timeutil"
)

// TimeRange selects how much history a report covers.
type TimeRange string

const (
	Range7Days  TimeRange = "7days"
	Range30Days TimeRange = "30days"
	RangeAll    TimeRange = "all"
)

// TimeRanges lists the supported ranges in display order.
var TimeRanges = []TimeRange{Range7Days, Range30Days, RangeAll}

// ParseTimeRange accepts the wire values plus a few CLI spellings.
func ParseTimeRange(s string) (TimeRange, error) {
	switch s {
	case "7days", "7d", "week", "":
		return Range7Days, nil
	case "30days", "30d", "month":
		return Range30Days, nil
	case "all":
		return RangeAll, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidTimeRange, s)
}

// Label returns the display name of the range.
func (r TimeRange) Label() string {
	switch r {
	case Range30Days:
		return "最近30天"
	case RangeAll:
		return "全部"
	default:
		return "最近7天"
	}
}

// Issue describes a persisted record that was dropped or repaired.
type Issue struct {
	Key    string
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("[Statistics] Invalid %s: %s", i.Key, i.Reason)
}

// rawStat mirrors a persisted daily record before validation. Fields are
// kept raw so that a non-numeric value can be repaired instead of failing
// the whole record.
type rawStat struct {
	Date               json.RawMessage `json:"date"`
	FocusMinutes       json.RawMessage `json:"focusMinutes"`
	CompletedPomodoros json.RawMessage `json:"completedPomodoros"`
	Sessions           json.RawMessage `json:"sessions"`
}

// ValidateAndCleanHistory validates a persisted history object.
// Keys that are not YYYY-MM-DD calendar days are dropped, as are values
// that are not objects. Missing or non-numeric counters become 0. The
// legacy "sessions" counter is read when "completedPomodoros" is absent.
func ValidateAndCleanHistory(raw map[string]json.RawMessage) (domain.StatsHistory, []Issue) {
	clean := make(domain.StatsHistory, len(raw))
	var issues []Issue

	for _, key := range sortedKeys(raw) {
		if !timeutil.IsDateKey(key) {
			issues = append(issues, Issue{Key: key, Reason: "date key"})
			continue
		}

		value := bytes.TrimSpace(raw[key])
		if len(value) == 0 || value[0] != '{' {
			issues = append(issues, Issue{Key: key, Reason: "record is not an object"})
			continue
		}

		var rs rawStat
		if err := json.Unmarshal(value, &rs); err != nil {
			issues = append(issues, Issue{Key: key, Reason: "record is not an object"})
			continue
		}

		focus, ok := numberField(rs.FocusMinutes)
		if !ok {
			issues = append(issues, Issue{Key: key, Reason: "focusMinutes"})
		}

		countRaw := rs.CompletedPomodoros
		if len(countRaw) == 0 {
			countRaw = rs.Sessions
		}
		count, ok := numberField(countRaw)
		if !ok {
			issues = append(issues, Issue{Key: key, Reason: "completedPomodoros"})
		}

		clean[key] = domain.DailyStat{
			Date:               key,
			FocusMinutes:       focus,
			CompletedPomodoros: count,
		}
	}

	return clean, issues
}

// CleanHistory applies the same key and counter rules to an already typed history.
func CleanHistory(h domain.StatsHistory) (domain.StatsHistory, []Issue) {
	clean := make(domain.StatsHistory, len(h))
	var issues []Issue
	for _, key := range sortedKeys(h) {
		if !timeutil.IsDateKey(key) {
			issues = append(issues, Issue{Key: key, Reason: "date key"})
			continue
		}
		stat := h[key]
		clean[key] = domain.DailyStat{
			Date:               key,
			FocusMinutes:       max(0, stat.FocusMinutes),
			CompletedPomodoros: max(0, stat.CompletedPomodoros),
		}
	}
	return clean, issues
}

// numberField decodes a counter. Absent fields read as 0 without an issue;
// present but non-numeric fields read as 0 and report false.
func numberField(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < 0 {
		return 0, true
	}
	return int(math.Round(f)), true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// epochStart is returned for RangeAll; the caller replaces it with the
// earliest persisted day.
var epochStart = time.Unix(0, 0)

// CalculateStartDate returns the first day covered by r, relative to today.
// For RangeAll it returns the Unix epoch as a sentinel.
func CalculateStartDate(today time.Time, r TimeRange) time.Time {
	today = timeutil.StartOfDay(today)
	switch r {
	case Range30Days:
		return timeutil.AddDays(today, -29)
	case RangeAll:
		return epochStart.In(today.Location())
	default:
		return timeutil.AddDays(today, -6)
	}
}

// GenerateDateRange lists every day key from start through end inclusive.
// It returns an empty slice when start is after end.
func GenerateDateRange(start, end time.Time) []string {
	start = timeutil.StartOfDay(start)
	end = timeutil.StartOfDay(end)
	keys := []string{}
	for d := start; !d.After(end); d = timeutil.AddDays(d, 1) {
		keys = append(keys, timeutil.FormatDateKey(d))
	}
	return keys
}

// ProcessHistoryData produces one point per day of the range, oldest first,
// filling missing days with zero. For RangeAll the series starts at the
// earliest persisted day, and an empty history yields an empty series.
func ProcessHistoryData(history domain.StatsHistory, r TimeRange) []domain.DailyStat {
	return ProcessHistoryDataAt(history, r, time.Now())
}

// ProcessHistoryDataAt is ProcessHistoryData with an explicit "now".
func ProcessHistoryDataAt(history domain.StatsHistory, r TimeRange, now time.Time) []domain.DailyStat {
	history, _ = CleanHistory(history)
	today := timeutil.StartOfDay(now)

	var start time.Time
	if r == RangeAll {
		earliest, ok := earliestDay(history, now.Location())
		if !ok {
			return []domain.DailyStat{}
		}
		start = earliest
	} else {
		start = CalculateStartDate(today, r)
	}

	keys := GenerateDateRange(start, today)
	points := make([]domain.DailyStat, 0, len(keys))
	for _, key := range keys {
		points = append(points, history.Get(key))
	}
	return points
}

func earliestDay(history domain.StatsHistory, loc *time.Location) (time.Time, bool) {
	var earliest string
	for key := range history {
		if !timeutil.IsDateKey(key) {
			continue
		}
		if earliest == "" || key < earliest {
			earliest = key
		}
	}
	if earliest == "" {
		return time.Time{}, false
	}
	t, err := timeutil.ParseDateKey(earliest, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a day key relative to now: 今天, 昨天, or M月D日.
// Keys that do not parse are returned unchanged.
func FormatDate(key string, now time.Time) string {
	t, err := timeutil.ParseDateKey(key, now.Location())
	if err != nil {
		return key
	}
	today := timeutil.StartOfDay(now)
	switch key {
	case timeutil.FormatDateKey(today):
		return "今天"
	case timeutil.FormatDateKey(timeutil.AddDays(today, -1)):
		return "昨天"
	}
	return fmt.Sprintf("%d月%d日", int(t.Month()), t.Day())
}

// Totals sums a series.
type Totals struct {
	TotalMinutes  int `json:"totalMinutes"`
	TotalSessions int `json:"totalSessions"`
}

// CalculateTotals sums the focus minutes and sessions of points.
func CalculateTotals(points []domain.DailyStat) Totals {
	var t Totals
	for _, p := range points {
		t.TotalMinutes += p.FocusMinutes
		t.TotalSessions += p.CompletedPomodoros
	}
	return t
}

// NewestFirst returns a reversed copy of a series for history lists.
func NewestFirst(points []domain.DailyStat) []domain.DailyStat {
	out := make([]domain.DailyStat, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}
