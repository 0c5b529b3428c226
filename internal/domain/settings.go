package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xvierd/pomo-cli/internal/timeutil"
)

// Phase identifies which interval the timer is counting down.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "shortBreak"
	PhaseLongBreak  Phase = "longBreak"
)

// Phases lists every phase in display order.
var Phases = []Phase{PhaseWork, PhaseShortBreak, PhaseLongBreak}

// ParsePhase accepts the wire value of a phase plus the short CLI aliases.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "work", "focus", "w":
		return PhaseWork, nil
	case "shortbreak", "short", "s":
		return PhaseShortBreak, nil
	case "longbreak", "long", "l":
		return PhaseLongBreak, nil
	}
	return "", ErrInvalidPhase
}

// IsValid reports whether p is one of the three known phases.
func (p Phase) IsValid() bool {
	return p == PhaseWork || p == PhaseShortBreak || p == PhaseLongBreak
}

// IsBreak returns true for both break phases.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// Label returns the human-readable phase name.
func (p Phase) Label() string {
	switch p {
	case PhaseShortBreak:
		return "短休息"
	case PhaseLongBreak:
		return "长休息"
	default:
		return "专注"
	}
}

// Description returns the one-line hint shown under the countdown.
func (p Phase) Description() string {
	switch p {
	case PhaseShortBreak:
		return "放松一下，准备下一轮"
	case PhaseLongBreak:
		return "深度休息，恢复精力"
	default:
		return "保持专注，完成当前任务"
	}
}

// Icon returns the phase glyph.
func (p Phase) Icon() string {
	switch p {
	case PhaseShortBreak:
		return "☕"
	case PhaseLongBreak:
		return "🌿"
	default:
		return "⏱"
	}
}

// TimerStatus is the run state of the countdown.
type TimerStatus string

const (
	StatusIdle    TimerStatus = "idle"
	StatusRunning TimerStatus = "running"
	StatusPaused  TimerStatus = "paused"
)

// IsValid reports whether s is a known timer status.
func (s TimerStatus) IsValid() bool {
	return s == StatusIdle || s == StatusRunning || s == StatusPaused
}

// Label returns a short English label for CLI output.
func (s TimerStatus) Label() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	default:
		return "Idle"
	}
}

// NoiseType selects the ambient noise played during focus.
type NoiseType string

const (
	NoiseRain NoiseType = "rain"
	NoiseCafe NoiseType = "cafe"
	NoiseFire NoiseType = "fire"
)

// NoiseTypes lists the supported ambient noises.
var NoiseTypes = []NoiseType{NoiseRain, NoiseCafe, NoiseFire}

// IsValid reports whether n is a supported noise type.
func (n NoiseType) IsValid() bool {
	return n == NoiseRain || n == NoiseCafe || n == NoiseFire
}

// Label returns the display name of the noise.
func (n NoiseType) Label() string {
	switch n {
	case NoiseCafe:
		return "咖啡馆"
	case NoiseFire:
		return "篝火"
	default:
		return "雨声"
	}
}

// FilterFrequency is the low-pass cutoff in Hz used to shape the noise.
func (n NoiseType) FilterFrequency() float64 {
	switch n {
	case NoiseCafe:
		return 1200
	case NoiseFire:
		return 400
	default:
		return 800
	}
}

// Bounds for user-editable settings.
const (
	MinMinutes         = 1
	MaxMinutes         = 120
	MinLongBreakEvery  = 2
	MaxLongBreakEvery  = 8
	DefaultWorkMinutes = 25
)

// Settings holds the user preferences that drive the timer.
type Settings struct {
	WorkMinutes       int       `json:"workMinutes"`
	ShortBreakMinutes int       `json:"shortBreakMinutes"`
	LongBreakMinutes  int       `json:"longBreakMinutes"`
	LongBreakEvery    int       `json:"longBreakEvery"`
	AutoStartNext     bool      `json:"autoStartNext"`
	SoundEnabled      bool      `json:"soundEnabled"`
	WhiteNoiseEnabled bool      `json:"whiteNoiseEnabled"`
	WhiteNoiseType    NoiseType `json:"whiteNoiseType"`
	MiniMode          bool      `json:"miniMode"`
	MinimizeToTray    bool      `json:"minimizeToTray"`
}

// DefaultSettings returns the first-run settings.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:       DefaultWorkMinutes,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakEvery:    4,
		AutoStartNext:     false,
		SoundEnabled:      true,
		WhiteNoiseEnabled: false,
		WhiteNoiseType:    NoiseRain,
		MiniMode:          false,
		MinimizeToTray:    true,
	}
}

// ClampMinutes rounds v to the nearest minute and clamps it into [1,120].
// NaN maps to the lower bound.
func ClampMinutes(v float64) int {
	return clampRounded(v, MinMinutes, MaxMinutes)
}

// ClampLongBreakEvery clamps the long-break cadence into [2,8].
func ClampLongBreakEvery(v float64) int {
	return clampRounded(v, MinLongBreakEvery, MaxLongBreakEvery)
}

// ParseMinutes clamps a textual duration. Non-numeric text maps to 1.
func ParseMinutes(s string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return MinMinutes
	}
	return ClampMinutes(v)
}

func clampRounded(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		return lo
	}
	r := math.Round(v)
	if r < float64(lo) {
		return lo
	}
	if r > float64(hi) {
		return hi
	}
	return int(r)
}

// Normalize returns a copy with every bounded field clamped and unknown
// noise types replaced by rain.
func (s Settings) Normalize() Settings {
	s.WorkMinutes = ClampMinutes(float64(s.WorkMinutes))
	s.ShortBreakMinutes = ClampMinutes(float64(s.ShortBreakMinutes))
	s.LongBreakMinutes = ClampMinutes(float64(s.LongBreakMinutes))
	s.LongBreakEvery = ClampLongBreakEvery(float64(s.LongBreakEvery))
	if !s.WhiteNoiseType.IsValid() {
		s.WhiteNoiseType = NoiseRain
	}
	return s
}

// PhaseMinutes returns the configured duration of phase p.
func (s Settings) PhaseMinutes(p Phase) int {
	switch p {
	case PhaseShortBreak:
		return s.ShortBreakMinutes
	case PhaseLongBreak:
		return s.LongBreakMinutes
	default:
		return s.WorkMinutes
	}
}

// PhaseSeconds returns the configured duration of phase p in seconds.
func (s Settings) PhaseSeconds(p Phase) int {
	return timeutil.MinutesToSeconds(float64(s.PhaseMinutes(p)))
}

// AmbientActive reports whether ambient noise should play for the given state.
func (s Settings) AmbientActive(status TimerStatus, phase Phase) bool {
	return s.WhiteNoiseEnabled && status == StatusRunning && phase == PhaseWork
}

// SettingKeys lists the keys accepted by Settings.Set, in display order.
var SettingKeys = []string{
	"work_minutes",
	"short_break_minutes",
	"long_break_minutes",
	"long_break_every",
	"auto_start_next",
	"sound_enabled",
	"white_noise_enabled",
	"white_noise_type",
	"mini_mode",
	"minimize_to_tray",
}

// Get returns the textual value of a setting.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "work_minutes":
		return strconv.Itoa(s.WorkMinutes), nil
	case "short_break_minutes":
		return strconv.Itoa(s.ShortBreakMinutes), nil
	case "long_break_minutes":
		return strconv.Itoa(s.LongBreakMinutes), nil
	case "long_break_every":
		return strconv.Itoa(s.LongBreakEvery), nil
	case "auto_start_next":
		return strconv.FormatBool(s.AutoStartNext), nil
	case "sound_enabled":
		return strconv.FormatBool(s.SoundEnabled), nil
	case "white_noise_enabled":
		return strconv.FormatBool(s.WhiteNoiseEnabled), nil
	case "white_noise_type":
		return string(s.WhiteNoiseType), nil
	case "mini_mode":
		return strconv.FormatBool(s.MiniMode), nil
	case "minimize_to_tray":
		return strconv.FormatBool(s.MinimizeToTray), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSetting, key)
}

// Set returns a copy with one setting changed from text. Durations follow
// ParseMinutes, so non-numeric input becomes one minute; the cadence is
// clamped the same way.
func (s Settings) Set(key, value string) (Settings, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "work_minutes":
		s.WorkMinutes = ParseMinutes(value)
	case "short_break_minutes":
		s.ShortBreakMinutes = ParseMinutes(value)
	case "long_break_minutes":
		s.LongBreakMinutes = ParseMinutes(value)
	case "long_break_every":
		s.LongBreakEvery = ClampLongBreakEvery(parseFloatOrNaN(value))
	case "white_noise_type":
		n := NoiseType(strings.ToLower(value))
		if !n.IsValid() {
			return s, fmt.Errorf("unknown noise type %q (want rain, cafe or fire)", value)
		}
		s.WhiteNoiseType = n
	case "auto_start_next", "sound_enabled", "white_noise_enabled", "mini_mode", "minimize_to_tray":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return s, fmt.Errorf("invalid value %q for %s: want true or false", value, key)
		}
		switch key {
		case "auto_start_next":
			s.AutoStartNext = b
		case "sound_enabled":
			s.SoundEnabled = b
		case "white_noise_enabled":
			s.WhiteNoiseEnabled = b
		case "mini_mode":
			s.MiniMode = b
		default:
			s.MinimizeToTray = b
		}
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return s, nil
}

func parseFloatOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
