package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/domain"
)

func TestDecode_FirstRun(t *testing.T) {
	for _, in := range []string{"", "   ", "null"} {
		res, err := Decode([]byte(in), domain.DefaultSettings())
		require.NoError(t, err)

		s := res.State
		assert.Equal(t, domain.PhaseWork, s.Session.Phase)
		assert.Equal(t, 1500, s.Session.RemainingSeconds)
		assert.Equal(t, domain.StatusIdle, s.Session.Status)
		assert.Zero(t, s.Session.WorkSessionsSinceLongBreak)
		assert.Empty(t, s.Tasks)
		assert.Empty(t, s.History)
		assert.Equal(t, domain.DefaultSettings(), s.Settings)
	}
}

func TestDecode_NotAnObject(t *testing.T) {
	res, err := Decode([]byte(`[1,2,3]`), domain.DefaultSettings())
	assert.Error(t, err)
	assert.Equal(t, 1500, res.State.Session.RemainingSeconds)
	assert.NotEmpty(t, res.Warnings)
}

func TestDecode_MergesSettingsFieldByField(t *testing.T) {
	data := []byte(`{"settings": {"workMinutes": 50, "longBreakEvery": 20, "soundEnabled": false}}`)
	res, err := Decode(data, domain.DefaultSettings())
	require.NoError(t, err)

	s := res.State.Settings
	assert.Equal(t, 50, s.WorkMinutes)
	assert.Equal(t, 5, s.ShortBreakMinutes, "absent field keeps the default")
	assert.Equal(t, 8, s.LongBreakEvery, "out of range value is clamped")
	assert.False(t, s.SoundEnabled)
	assert.True(t, s.MinimizeToTray)
	assert.Equal(t, domain.NoiseRain, s.WhiteNoiseType)

	// remainingSeconds is absent so it follows the merged work duration.
	assert.Equal(t, 3000, res.State.Session.RemainingSeconds)
}

func TestDecode_RepairsTopLevelFields(t *testing.T) {
	data := []byte(`{
		"phase": "lunch",
		"status": 7,
		"remainingSeconds": -40,
		"workSessionsSinceLongBreak": 12,
		"currentTaskId": null,
		"settings": {"workMinutes": "abc", "whiteNoiseType": "ocean"}
	}`)
	res, err := Decode(data, domain.DefaultSettings())
	require.NoError(t, err)

	s := res.State
	assert.Equal(t, domain.PhaseWork, s.Session.Phase)
	assert.Equal(t, domain.StatusIdle, s.Session.Status)
	assert.Equal(t, 0, s.Session.RemainingSeconds)
	assert.Equal(t, 3, s.Session.WorkSessionsSinceLongBreak)
	assert.Equal(t, "", s.CurrentTaskID)
	assert.Equal(t, 1, s.Settings.WorkMinutes)
	assert.Equal(t, domain.NoiseRain, s.Settings.WhiteNoiseType)
	assert.NotEmpty(t, res.Warnings)
}

func TestDecode_TasksAndHistory(t *testing.T) {
	data := []byte(`{
		"tasks": [
			{"id": "a", "title": "Write", "estPomodoros": 2, "completedPomodoros": 5, "completed": false, "createdAt": 1705305600000},
			{"id": "", "title": "no id"},
			{"id": "b", "title": "   "},
			"garbage",
			{"id": "c", "title": "Read", "estPomodoros": 0}
		],
		"currentTaskId": "a",
		"history": {
			"2024-01-15": {"date": "2024-01-15"},
			"2024-13-40": {"focusMinutes": 25},
			"2024-01-14": {"focusMinutes": 50, "sessions": 2}
		}
	}`)
	res, err := Decode(data, domain.DefaultSettings())
	require.NoError(t, err)

	s := res.State
	require.Len(t, s.Tasks, 2)
	assert.Equal(t, "a", s.Tasks[0].ID)
	assert.Equal(t, 2, s.Tasks[0].CompletedPomodoros, "completed count is capped at the estimate")
	assert.Equal(t, time.UnixMilli(1705305600000), s.Tasks[0].CreatedAt)
	assert.Equal(t, 1, s.Tasks[1].EstPomodoros)
	assert.Equal(t, "a", s.CurrentTaskID)

	assert.Len(t, s.History, 2)
	assert.Equal(t, domain.DailyStat{Date: "2024-01-15"}, s.History["2024-01-15"])
	assert.Equal(t, 2, s.History["2024-01-14"].CompletedPomodoros)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.AutoStartNext = true
	task := &domain.Task{
		ID:                 "t1",
		Title:              "Focus",
		EstPomodoros:       3,
		CompletedPomodoros: 1,
		CreatedAt:          time.UnixMilli(1705305600123),
	}
	in := domain.State{
		Settings: settings,
		Session: domain.Session{
			Phase:                      domain.PhaseShortBreak,
			RemainingSeconds:           120,
			Status:                     domain.StatusPaused,
			WorkSessionsSinceLongBreak: 2,
		},
		Tasks:         []*domain.Task{task},
		CurrentTaskID: "t1",
		History:       domain.StatsHistory{"2024-01-15": {FocusMinutes: 25, CompletedPomodoros: 1}},
	}

	data, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentTaskId":"t1"`)
	assert.Contains(t, string(data), `"createdAt":1705305600123`)

	res, err := Decode(data, domain.DefaultSettings())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, in.Session, res.State.Session)
	assert.Equal(t, in.Settings, res.State.Settings)
	assert.Equal(t, "t1", res.State.CurrentTaskID)
	require.Len(t, res.State.Tasks, 1)
	assert.True(t, task.CreatedAt.Equal(res.State.Tasks[0].CreatedAt))
	assert.Equal(t, domain.DailyStat{Date: "2024-01-15", FocusMinutes: 25, CompletedPomodoros: 1}, res.State.History["2024-01-15"])
}

func TestEncode_NullCurrentTask(t *testing.T) {
	data, err := Encode(domain.DefaultState())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentTaskId":null`)
}
