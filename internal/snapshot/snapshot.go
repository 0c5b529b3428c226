// Package snapshot encodes the persisted application state and decodes it
// back through a validating deserializer that always yields a fully
// defaulted domain.State.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/stats"
)

// Key is the storage key the snapshot is saved under.
const Key = "pomodoro_state"

// wireTask is the persisted form of a task; createdAt is Unix milliseconds.
type wireTask struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	EstPomodoros       int    `json:"estPomodoros"`
	CompletedPomodoros int    `json:"completedPomodoros"`
	Completed          bool   `json:"completed"`
	CreatedAt          int64  `json:"createdAt"`
}

type wireSnapshot struct {
	Tasks                      []wireTask                  `json:"tasks"`
	CurrentTaskID              *string                     `json:"currentTaskId"`
	Settings                   domain.Settings             `json:"settings"`
	History                    map[string]domain.DailyStat `json:"history"`
	Phase                      domain.Phase                `json:"phase"`
	RemainingSeconds           int                         `json:"remainingSeconds"`
	Status                     domain.TimerStatus          `json:"status"`
	WorkSessionsSinceLongBreak int                         `json:"workSessionsSinceLongBreak"`
}

// Encode serializes state to the persisted JSON form.
func Encode(state domain.State) ([]byte, error) {
	w := wireSnapshot{
		Tasks:                      make([]wireTask, 0, len(state.Tasks)),
		Settings:                   state.Settings,
		History:                    make(map[string]domain.DailyStat, len(state.History)),
		Phase:                      state.Session.Phase,
		RemainingSeconds:           state.Session.RemainingSeconds,
		Status:                     state.Session.Status,
		WorkSessionsSinceLongBreak: state.Session.WorkSessionsSinceLongBreak,
	}
	for _, t := range state.Tasks {
		w.Tasks = append(w.Tasks, wireTask{
			ID:                 t.ID,
			Title:              t.Title,
			EstPomodoros:       t.EstPomodoros,
			CompletedPomodoros: t.CompletedPomodoros,
			Completed:          t.Completed,
			CreatedAt:          t.CreatedAt.UnixMilli(),
		})
	}
	for k, v := range state.History {
		v.Date = k
		w.History[k] = v
	}
	if state.CurrentTaskID != "" {
		id := state.CurrentTaskID
		w.CurrentTaskID = &id
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Result is a decoded snapshot plus the repairs made while decoding.
type Result struct {
	State    domain.State
	Warnings []string
}

// Decode validates a persisted snapshot. An empty input is a first run and
// yields defaults built from base. Settings are merged field by field over
// base; every other top-level field falls back to its literal default when
// absent or malformed. Only input that is not a JSON object returns an error,
// together with the default state.
func Decode(data []byte, base domain.Settings) (Result, error) {
	base = base.Normalize()
	res := Result{State: defaultState(base)}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return res, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		res.Warnings = append(res.Warnings, "snapshot is not an object, using defaults")
		return res, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	d := decoder{top: top}
	settings := d.settings(base)
	res.State.Settings = settings

	res.State.Tasks = d.tasks()

	if raw, ok := top["currentTaskId"]; ok {
		var id *string
		if err := json.Unmarshal(raw, &id); err != nil {
			d.warn("currentTaskId is not a string")
		} else if id != nil {
			res.State.CurrentTaskID = *id
		}
	}

	if raw, ok := top["history"]; ok {
		var rawHistory map[string]json.RawMessage
		if err := json.Unmarshal(raw, &rawHistory); err != nil {
			d.warn("history is not an object")
		} else {
			clean, issues := stats.ValidateAndCleanHistory(rawHistory)
			res.State.History = clean
			for _, issue := range issues {
				d.warnings = append(d.warnings, issue.String())
			}
		}
	}

	session := domain.Session{Phase: domain.PhaseWork, Status: domain.StatusIdle}
	if raw, ok := top["phase"]; ok {
		var p domain.Phase
		if err := json.Unmarshal(raw, &p); err != nil || !p.IsValid() {
			d.warn("phase")
		} else {
			session.Phase = p
		}
	}
	if raw, ok := top["status"]; ok {
		var s domain.TimerStatus
		if err := json.Unmarshal(raw, &s); err != nil || !s.IsValid() {
			d.warn("status")
		} else {
			session.Status = s
		}
	}

	session.RemainingSeconds = settings.PhaseSeconds(session.Phase)
	if n, ok := d.int("remainingSeconds"); ok {
		session.RemainingSeconds = max(0, n)
	}

	if n, ok := d.int("workSessionsSinceLongBreak"); ok {
		session.WorkSessionsSinceLongBreak = min(max(0, n), settings.LongBreakEvery-1)
	}
	res.State.Session = session

	res.Warnings = append(res.Warnings, d.warnings...)
	return res, nil
}

func defaultState(settings domain.Settings) domain.State {
	return domain.State{
		Settings: settings,
		Session:  domain.NewSession(settings),
		Tasks:    []*domain.Task{},
		History:  domain.StatsHistory{},
	}
}

type decoder struct {
	top      map[string]json.RawMessage
	warnings []string
}

func (d *decoder) warn(format string, args ...any) {
	d.warnings = append(d.warnings, fmt.Sprintf("[Snapshot] Invalid "+format, args...))
}

// int reads an integral top-level field. Absent fields report false silently.
func (d *decoder) int(key string) (int, bool) {
	raw, ok := d.top[key]
	if !ok {
		return 0, false
	}
	n, ok := toInt(raw)
	if !ok {
		d.warn("%s", key)
	}
	return n, ok
}

func toInt(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

// settings merges each present, well-typed settings field over base and
// clamps the result.
func (d *decoder) settings(base domain.Settings) domain.Settings {
	out := base
	raw, ok := d.top["settings"]
	if !ok {
		return out
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		d.warn("settings")
		return out
	}

	minutes := func(key string, dst *int, clamp func(float64) int) {
		v, ok := fields[key]
		if !ok || string(v) == "null" {
			return
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			var s string
			if json.Unmarshal(v, &s) == nil {
				*dst = clamp(parseFloatOrNaN(s))
				return
			}
			d.warn("settings.%s", key)
			return
		}
		*dst = clamp(f)
	}
	flag := func(key string, dst *bool) {
		v, ok := fields[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(v, dst); err != nil {
			d.warn("settings.%s", key)
		}
	}

	minutes("workMinutes", &out.WorkMinutes, domain.ClampMinutes)
	minutes("shortBreakMinutes", &out.ShortBreakMinutes, domain.ClampMinutes)
	minutes("longBreakMinutes", &out.LongBreakMinutes, domain.ClampMinutes)
	minutes("longBreakEvery", &out.LongBreakEvery, domain.ClampLongBreakEvery)
	flag("autoStartNext", &out.AutoStartNext)
	flag("soundEnabled", &out.SoundEnabled)
	flag("whiteNoiseEnabled", &out.WhiteNoiseEnabled)
	flag("miniMode", &out.MiniMode)
	flag("minimizeToTray", &out.MinimizeToTray)

	if v, ok := fields["whiteNoiseType"]; ok {
		var n domain.NoiseType
		if err := json.Unmarshal(v, &n); err != nil || !n.IsValid() {
			d.warn("settings.whiteNoiseType")
		} else {
			out.WhiteNoiseType = n
		}
	}

	return out.Normalize()
}

func parseFloatOrNaN(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// tasks decodes the task list permissively. Entries without an id or with
// an empty title are dropped; counters are repaired into range.
func (d *decoder) tasks() []*domain.Task {
	out := []*domain.Task{}
	raw, ok := d.top["tasks"]
	if !ok {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		d.warn("tasks")
		return out
	}

	seen := make(map[string]bool, len(items))
	for i, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			d.warn("tasks[%d]", i)
			continue
		}

		var id, title string
		_ = json.Unmarshal(fields["id"], &id)
		_ = json.Unmarshal(fields["title"], &title)
		title = strings.TrimSpace(title)
		if id == "" || title == "" || seen[id] {
			d.warn("tasks[%d]", i)
			continue
		}
		seen[id] = true

		est, _ := toInt(fields["estPomodoros"])
		done, _ := toInt(fields["completedPomodoros"])
		var completed bool
		_ = json.Unmarshal(fields["completed"], &completed)

		task := &domain.Task{
			ID:           id,
			Title:        title,
			EstPomodoros: max(1, est),
			Completed:    completed,
			CreatedAt:    time.Unix(0, 0),
		}
		task.CompletedPomodoros = min(max(0, done), task.EstPomodoros)
		if ms, ok := toInt(fields["createdAt"]); ok {
			task.CreatedAt = time.UnixMilli(int64(ms))
		}
		out = append(out, task)
	}
	return out
}
