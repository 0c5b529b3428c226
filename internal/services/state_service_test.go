package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/stats"
)

func newStateService(t *testing.T, settings domain.Settings) (*StateService, *fakeNotifier, *fakeAmbient) {
	t.Helper()
	svc := newTestService(t, settings)
	notifier := &fakeNotifier{}
	ambient := &fakeAmbient{}
	dispatcher := NewEffectDispatcher(notifier, &fakeChime{}, ambient, nil)
	return NewStateService(svc, NewTaskService(svc), NewStatsService(svc, nil), dispatcher), notifier, ambient
}

func TestStateService_TimerControls(t *testing.T) {
	ctx := context.Background()
	settings := domain.DefaultSettings()
	settings.WhiteNoiseEnabled = true
	state, notifier, ambient := newStateService(t, settings)

	st, err := state.StartTimer(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, st.Status)
	assert.Equal(t, domain.NoiseRain, ambient.playing)

	st, err = state.PauseTimer(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaused, st.Status)
	assert.Empty(t, ambient.playing)

	st, err = state.SkipPhase(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseShortBreak, st.Phase)
	assert.Empty(t, notifier.titles)

	st, err = state.SelectPhase(ctx, domain.PhaseLongBreak)
	require.NoError(t, err)
	assert.Equal(t, 900, st.RemainingSeconds)

	_, err = state.SelectPhase(ctx, domain.Phase("nope"))
	assert.ErrorIs(t, err, domain.ErrInvalidPhase)

	st, err = state.ResetTimer(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, st.Status)

	st, err = state.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "15:00", st.Remaining)
}

func TestStateService_Tasks(t *testing.T) {
	ctx := context.Background()
	state, _, _ := newStateService(t, domain.DefaultSettings())

	task, err := state.CreateTask(ctx, "Plan sprint", 2)
	require.NoError(t, err)
	_, err = state.CreateTask(ctx, "", 1)
	assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)

	selected, err := state.SelectTask(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, task.ID, selected.ID)

	toggled, err := state.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	all, err := state.ListTasks(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	no := false
	active, err := state.ListTasks(ctx, &no)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestStateService_GetHistory(t *testing.T) {
	state, _, _ := newStateService(t, domain.DefaultSettings())
	state.pomodoro.CompletePhase()

	report, err := state.GetHistory(context.Background(), stats.Range7Days)
	require.NoError(t, err)
	assert.Equal(t, 25, report.Totals.TotalMinutes)
	assert.Equal(t, stats.Range7Days, report.Range)
}
