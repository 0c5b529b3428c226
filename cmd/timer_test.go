package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/stats"
)

func statusOf(t *testing.T, env testEnv) domain.Status {
	t.Helper()
	var s domain.Status
	require.NoError(t, json.Unmarshal([]byte(env.mustRun(t, "status", "--json")), &s))
	return s
}

func TestStartPauseReset(t *testing.T) {
	env := newTestEnv(t)

	s := statusOf(t, env)
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.Equal(t, domain.PhaseWork, s.Phase)
	assert.Equal(t, "25:00", s.Remaining)

	out := env.mustRun(t, "start", "--no-tui")
	assert.Contains(t, out, "▶️  Timer started")
	assert.Contains(t, out, "Running")
	assert.Equal(t, domain.StatusRunning, statusOf(t, env).Status)

	out = env.mustRun(t, "pause")
	assert.Contains(t, out, "⏸️  Timer paused")
	assert.Equal(t, domain.StatusPaused, statusOf(t, env).Status)

	out = env.mustRun(t, "pause")
	assert.Contains(t, out, "Timer is not running")

	out = env.mustRun(t, "reset")
	assert.Contains(t, out, "🔄 Timer reset")
	s = statusOf(t, env)
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.Equal(t, 25*60, s.RemainingSeconds)
}

func TestStart_WithTask(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Deep work block")

	env.mustRun(t, "start", "--no-tui", "--task", "Deep work block")
	s := statusOf(t, env)
	require.NotNil(t, s.CurrentTask)
	assert.Equal(t, "Deep work block", s.CurrentTask.Title)

	_, _, err := env.run(t, "start", "--no-tui", "--task", "zzzz qqqq")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestSkipAndPhase(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "skip")
	assert.Contains(t, out, "⏭️  Skipped to the next phase")
	s := statusOf(t, env)
	assert.Equal(t, domain.PhaseShortBreak, s.Phase)
	assert.Equal(t, 0, s.WorkSessionsSinceLongBreak, "a skipped focus session does not count")

	out = env.mustRun(t, "phase", "long")
	assert.Contains(t, out, "长休息")
	s = statusOf(t, env)
	assert.Equal(t, domain.PhaseLongBreak, s.Phase)
	assert.Equal(t, "15:00", s.Remaining)

	_, _, err := env.run(t, "phase", "lunch")
	assert.ErrorIs(t, err, domain.ErrInvalidPhase)
}

func TestSettingsSetAndShow(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "settings", "set", "work-minutes", "50")
	assert.Contains(t, out, "work_minutes = 50")
	assert.Equal(t, "50:00", statusOf(t, env).Remaining)

	out = env.mustRun(t, "settings", "set", "long_break_every", "99")
	assert.Contains(t, out, "long_break_every = 8")

	out = env.mustRun(t, "settings", "show")
	assert.Contains(t, out, "⚙️  Settings:")
	assert.Contains(t, out, "work_minutes")

	var s domain.Settings
	require.NoError(t, json.Unmarshal([]byte(env.mustRun(t, "settings", "--json")), &s))
	assert.Equal(t, 50, s.WorkMinutes)
	assert.Equal(t, 8, s.LongBreakEvery)

	_, _, err := env.run(t, "settings", "set", "volume", "3")
	assert.True(t, errors.Is(err, domain.ErrUnknownSetting))
}

func TestSettingsSet_ResetsPausedPhase(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "start", "--no-tui")
	env.mustRun(t, "pause")

	out := env.mustRun(t, "settings", "set", "work_minutes", "40")
	assert.Contains(t, out, "work_minutes = 40")
	s := statusOf(t, env)
	assert.Equal(t, domain.StatusPaused, s.Status)
	assert.Equal(t, 40*60, s.RemainingSeconds)

	out = env.mustRun(t, "settings", "set", "short-break-minutes", "0")
	assert.Contains(t, out, "short_break_minutes = 1")
	assert.Equal(t, 40*60, statusOf(t, env).RemainingSeconds, "other phase leaves the countdown alone")
}

func TestStatsCmd_Empty(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "stats")
	assert.Contains(t, out, "最近7天")
	assert.Contains(t, out, "No finished focus sessions in this range.")

	var report stats.Report
	require.NoError(t, json.Unmarshal([]byte(env.mustRun(t, "stats", "--range", "30days", "--json")), &report))
	assert.Equal(t, stats.Range30Days, report.Range)
	assert.Len(t, report.Points, 30)

	_, _, err := env.run(t, "stats", "--range", "year")
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestExportCmd(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Exported task")

	out := env.mustRun(t, "export", "--range", "7days")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "date,focus_minutes,completed_pomodoros", lines[0])
	assert.Len(t, lines, 8)

	out = env.mustRun(t, "export", "--format", "json")
	assert.Contains(t, out, "Exported task")

	path := filepath.Join(env.dir, "out.csv")
	_, stderr, err := env.run(t, "export", "--range", "7days", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "📤 Exported 7 days to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("date,")))

	_, _, err = env.run(t, "export", "--format", "xml")
	assert.Error(t, err)
}

func TestWriteStatus(t *testing.T) {
	var buf bytes.Buffer
	writeStatus(&buf, domain.Status{
		Phase:                      domain.PhaseWork,
		PhaseLabel:                 domain.PhaseWork.Label(),
		Status:                     domain.StatusRunning,
		Remaining:                  "12:30",
		MinutesLeft:                13,
		Progress:                   0.5,
		WorkSessionsSinceLongBreak: 2,
		LongBreakEvery:             4,
		CurrentTask:                &domain.Task{Title: "Essay", EstPomodoros: 3, CompletedPomodoros: 1},
		Today:                      domain.DailyStat{FocusMinutes: 50, CompletedPomodoros: 2},
		Ambient:                    domain.NoiseRain,
	})

	out := buf.String()
	assert.Contains(t, out, "专注 · Running")
	assert.Contains(t, out, "Remaining: 12:30 (13 min left)")
	assert.Contains(t, out, "Progress: 50%")
	assert.Contains(t, out, "Cycle: 2/4 until long break")
	assert.Contains(t, out, "Ambient: 雨声")
	assert.Contains(t, out, "📋 当前任务: Essay (1/3)")
	assert.Contains(t, out, "📊 今日专注: 50 分钟 · 完成番茄: 2")
}
