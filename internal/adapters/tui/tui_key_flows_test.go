package tui

// Key-flow tests drive the Model through complete user interactions against
// the real timer and task services.

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/services"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func keyPress(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

type recorder struct {
	batches [][]domain.Effect
}

func (r *recorder) dispatch(effects []domain.Effect) {
	r.batches = append(r.batches, effects)
}

func (r *recorder) kinds() []domain.EffectKind {
	var kinds []domain.EffectKind
	for _, b := range r.batches {
		for _, e := range b {
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}

type fixture struct {
	pomodoro *services.PomodoroService
	tasks    *services.TaskService
	effects  *recorder
}

func newFixture(t *testing.T, settings domain.Settings) (Model, *fixture) {
	t.Helper()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)
	pomodoro := services.NewPomodoroService(settings, services.WithClock(func() time.Time { return now }))
	f := &fixture{
		pomodoro: pomodoro,
		tasks:    services.NewTaskService(pomodoro),
		effects:  &recorder{},
	}
	m := NewModel(f.pomodoro, f.tasks, f.effects.dispatch, nil)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, f
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return out
}

func sendCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	return send(t, m, tickMsg{gen: m.tickGen})
}

// ---------------------------------------------------------------------------
// Timer keys
// ---------------------------------------------------------------------------

func TestModel_SpaceStartsAndSchedulesTick(t *testing.T) {
	m, f := newFixture(t, domain.DefaultSettings())

	m, cmd := sendCmd(t, m, keyPress("space"))
	assert.NotNil(t, cmd, "starting should schedule a tick")
	assert.True(t, m.ticking)
	assert.Equal(t, domain.StatusRunning, m.status.Status)
	assert.Equal(t, domain.StatusRunning, f.pomodoro.Status().Status)

	m = tick(t, m)
	assert.Equal(t, 1499, m.status.RemainingSeconds)
	assert.True(t, m.ticking, "a tick while running reschedules the next one")
}

func TestModel_StaleTickIgnored(t *testing.T) {
	m, _ := newFixture(t, domain.DefaultSettings())
	m = send(t, m, keyPress("space"))
	stale := m.tickGen

	m = send(t, m, keyPress("space"))
	assert.Equal(t, domain.StatusPaused, m.status.Status)
	assert.False(t, m.ticking)

	m = send(t, m, keyPress("space"))
	m = send(t, m, tickMsg{gen: stale})
	assert.Equal(t, 1500, m.status.RemainingSeconds, "a tick from an earlier run must not count")

	m = tick(t, m)
	assert.Equal(t, 1499, m.status.RemainingSeconds)
}

func TestModel_TickWhilePausedIgnored(t *testing.T) {
	m, _ := newFixture(t, domain.DefaultSettings())
	m = send(t, m, keyPress("space"))
	gen := m.tickGen
	m = send(t, m, keyPress("space"))

	m = send(t, m, tickMsg{gen: gen})
	assert.Equal(t, 1500, m.status.RemainingSeconds)
}

func TestModel_ResetAndSkip(t *testing.T) {
	m, f := newFixture(t, domain.DefaultSettings())
	m = send(t, m, keyPress("space"))
	m = tick(t, m)
	m = tick(t, m)

	m = send(t, m, keyPress("r"))
	assert.Equal(t, domain.StatusIdle, m.status.Status)
	assert.Equal(t, 1500, m.status.RemainingSeconds)
	assert.False(t, m.ticking)

	m = send(t, m, keyPress("n"))
	assert.Equal(t, domain.PhaseShortBreak, m.status.Phase)
	assert.Equal(t, 0, f.pomodoro.History().Get("2024-03-15").CompletedPomodoros)
}

func TestModel_PhaseKeys(t *testing.T) {
	tests := []struct {
		key  string
		want domain.Phase
		secs int
	}{
		{"2", domain.PhaseShortBreak, 300},
		{"3", domain.PhaseLongBreak, 900},
		{"1", domain.PhaseWork, 1500},
	}

	m, _ := newFixture(t, domain.DefaultSettings())
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m = send(t, m, keyPress(tt.key))
			assert.Equal(t, tt.want, m.status.Phase)
			assert.Equal(t, tt.secs, m.status.RemainingSeconds)
			assert.Equal(t, domain.StatusIdle, m.status.Status)
		})
	}
}

func TestModel_CompletionDispatchesEffects(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.WorkMinutes = 1
	m, f := newFixture(t, settings)

	m = send(t, m, keyPress("space"))
	for i := 0; i < 60; i++ {
		m = tick(t, m)
	}

	assert.Equal(t, domain.PhaseShortBreak, m.status.Phase)
	assert.Equal(t, domain.StatusIdle, m.status.Status)
	assert.False(t, m.ticking, "an idle break must not keep ticking")
	assert.Equal(t, 1, m.status.Today.CompletedPomodoros)
	assert.Equal(t, 1, m.status.Today.FocusMinutes)
	assert.Contains(t, f.effects.kinds(), domain.EffectNotify)
	assert.Contains(t, f.effects.kinds(), domain.EffectChime)
}

func TestModel_AutoStartKeepsTicking(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.WorkMinutes = 1
	settings.AutoStartNext = true
	m, _ := newFixture(t, settings)

	m = send(t, m, keyPress("space"))
	for i := 0; i < 60; i++ {
		m = tick(t, m)
	}

	assert.Equal(t, domain.PhaseShortBreak, m.status.Phase)
	assert.Equal(t, domain.StatusRunning, m.status.Status)
	assert.True(t, m.ticking)
}

func TestModel_MiniToggle(t *testing.T) {
	m, f := newFixture(t, domain.DefaultSettings())

	m = send(t, m, keyPress("m"))
	assert.True(t, f.pomodoro.Settings().MiniMode)
	assert.NotContains(t, m.View(), "今日专注")

	m = send(t, m, keyPress("m"))
	assert.False(t, f.pomodoro.Settings().MiniMode)
	assert.Contains(t, m.View(), "今日专注")
}

func TestModel_QuitAndHelp(t *testing.T) {
	m, _ := newFixture(t, domain.DefaultSettings())

	m = send(t, m, keyPress("?"))
	assert.True(t, m.help.ShowAll)

	_, cmd := sendCmd(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

// ---------------------------------------------------------------------------
// Task keys
// ---------------------------------------------------------------------------

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestModel_AddTaskFlow(t *testing.T) {
	m, f := newFixture(t, domain.DefaultSettings())

	m = send(t, m, keyPress("a"))
	require.True(t, m.adding)

	// Timer keys type into the input while adding.
	m = typeText(t, m, "write 1 report")
	assert.Equal(t, domain.StatusIdle, m.status.Status)
	assert.Equal(t, domain.PhaseWork, m.status.Phase)

	m = send(t, m, keyPress("enter"))
	assert.False(t, m.adding)
	require.Len(t, m.list, 1)
	assert.Equal(t, "write 1 report", m.list[0].Title)
	assert.Len(t, f.tasks.ListTasks(services.ListTasksRequest{All: true}), 1)
}

func TestModel_AddTaskCancelAndBlank(t *testing.T) {
	m, _ := newFixture(t, domain.DefaultSettings())

	m = send(t, m, keyPress("a"))
	m = typeText(t, m, "nope")
	m = send(t, m, keyPress("esc"))
	assert.False(t, m.adding)
	assert.Empty(t, m.list)

	m = send(t, m, keyPress("a"))
	m = send(t, m, keyPress("enter"))
	assert.Empty(t, m.list)
	assert.NotEmpty(t, m.lastError)
}

func TestModel_SelectCompleteDelete(t *testing.T) {
	m, f := newFixture(t, domain.DefaultSettings())
	first, _ := f.tasks.AddTask(services.AddTaskRequest{Title: "first", EstPomodoros: 2})
	second, _ := f.tasks.AddTask(services.AddTaskRequest{Title: "second", EstPomodoros: 1})
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m.refresh()
	require.Len(t, m.list, 2)

	m = send(t, m, keyPress("j"))
	m = send(t, m, keyPress("enter"))
	require.NotNil(t, m.status.CurrentTask)
	assert.Equal(t, second.ID, m.status.CurrentTask.ID)

	m = send(t, m, keyPress("u"))
	assert.Nil(t, m.status.CurrentTask)

	m = send(t, m, keyPress("k"))
	m = send(t, m, keyPress("x"))
	require.Len(t, m.list, 1, "completed task leaves the active list")
	assert.Equal(t, second.ID, m.list[0].ID)

	m = send(t, m, keyPress("tab"))
	require.Len(t, m.list, 1)
	assert.Equal(t, first.ID, m.list[0].ID)
	assert.Contains(t, m.View(), "已完成的任务")

	m = send(t, m, keyPress("d"))
	assert.Empty(t, m.list)
	_, err := f.tasks.Resolve(first.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestModel_CursorClampedAfterDelete(t *testing.T) {
	m, f := newFixture(t, domain.DefaultSettings())
	_, _ = f.tasks.AddTask(services.AddTaskRequest{Title: "a"})
	_, _ = f.tasks.AddTask(services.AddTaskRequest{Title: "b"})
	m.refresh()

	m = send(t, m, keyPress("j"))
	m = send(t, m, keyPress("j"))
	assert.Equal(t, 1, m.cursor)

	m = send(t, m, keyPress("d"))
	assert.Equal(t, 0, m.cursor)
	require.Len(t, m.list, 1)
	assert.Equal(t, "a", m.list[0].Title)
}
