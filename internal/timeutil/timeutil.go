// Package timeutil provides the small time helpers shared by the timer,
// the statistics engine and the presentation layers.
package timeutil

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// DateKeyLayout is the layout of a local calendar day key (YYYY-MM-DD).
const DateKeyLayout = "2006-01-02"

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// MinutesToSeconds converts minutes to whole seconds, rounded and clamped at zero.
func MinutesToSeconds(minutes float64) int {
	if math.IsNaN(minutes) {
		return 0
	}
	return int(math.Max(0, math.Round(minutes*60)))
}

// FormatSeconds renders a countdown as MM:SS. Negative input renders as 00:00.
// Minutes are not wrapped at 60, so 7200 renders as "120:00".
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// MinutesLeft returns the remaining whole minutes, rounded up.
func MinutesLeft(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return (seconds + 59) / 60
}

// FormatDateKey returns the local calendar day of t as YYYY-MM-DD.
func FormatDateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateKeyLayout, key, loc)
}

// IsDateKey reports whether key has the YYYY-MM-DD shape and names a real
// calendar day.
func IsDateKey(key string) bool {
	if !dateKeyPattern.MatchString(key) {
		return false
	}
	_, err := time.Parse(DateKeyLayout, key)
	return err == nil
}

// StartOfDay truncates t to local midnight of its calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days, keeping the wall clock.
// Calendar arithmetic keeps DST transitions from skipping or repeating a day.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
