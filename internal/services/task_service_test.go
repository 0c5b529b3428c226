package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/domain"
)

func newTaskService(t *testing.T) (*TaskService, *PomodoroService) {
	t.Helper()
	svc := newTestService(t, domain.DefaultSettings())
	return NewTaskService(svc), svc
}

func TestTaskService_AddTask(t *testing.T) {
	tests := []struct {
		name    string
		req     AddTaskRequest
		wantErr error
		wantEst int
	}{
		{name: "valid task", req: AddTaskRequest{Title: "  Test Task  ", EstPomodoros: 3}, wantEst: 3},
		{name: "estimate floored at one", req: AddTaskRequest{Title: "Tiny", EstPomodoros: 0}, wantEst: 1},
		{name: "empty title", req: AddTaskRequest{Title: ""}, wantErr: domain.ErrEmptyTaskTitle},
		{name: "whitespace title", req: AddTaskRequest{Title: "   "}, wantErr: domain.ErrEmptyTaskTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTaskService(t)
			task, err := service.AddTask(tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, task.ID)
			assert.Equal(t, tt.wantEst, task.EstPomodoros)
			assert.False(t, task.Completed)
			assert.Equal(t, fixedNow, task.CreatedAt)
		})
	}
}

func TestTaskService_AddTaskSelect(t *testing.T) {
	service, _ := newTaskService(t)

	_, err := service.AddTask(AddTaskRequest{Title: "first"})
	require.NoError(t, err)
	assert.Nil(t, service.CurrentTask())

	task, err := service.AddTask(AddTaskRequest{Title: "second", Select: true})
	require.NoError(t, err)
	require.NotNil(t, service.CurrentTask())
	assert.Equal(t, task.ID, service.CurrentTask().ID)

	service.ClearCurrent()
	assert.Nil(t, service.CurrentTask())
}

func TestTaskService_EditTask(t *testing.T) {
	service, svc := newTaskService(t)
	task, _ := service.AddTask(AddTaskRequest{Title: "Draft", EstPomodoros: 3, Select: true})
	svc.CompletePhase()
	_, _ = svc.SelectPhase(domain.PhaseWork)
	svc.CompletePhase()

	title := "Final draft"
	edited, err := service.EditTask(EditTaskRequest{Ref: task.ID, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Final draft", edited.Title)
	assert.Equal(t, 3, edited.EstPomodoros)
	assert.Equal(t, 2, edited.CompletedPomodoros)

	est := 1
	edited, err = service.EditTask(EditTaskRequest{Ref: task.ID, EstPomodoros: &est})
	require.NoError(t, err)
	assert.Equal(t, 1, edited.EstPomodoros)
	assert.Equal(t, 1, edited.CompletedPomodoros)

	empty := " "
	_, err = service.EditTask(EditTaskRequest{Ref: task.ID, Title: &empty})
	assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
	got, _ := service.Resolve(task.ID)
	assert.Equal(t, "Final draft", got.Title)

	_, err = service.EditTask(EditTaskRequest{Ref: "missing", Title: &title})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskService_DeleteTask(t *testing.T) {
	service, _ := newTaskService(t)
	task, _ := service.AddTask(AddTaskRequest{Title: "Drop me", Select: true})

	deleted, err := service.DeleteTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)
	assert.Nil(t, service.CurrentTask())
	assert.Empty(t, service.ListTasks(ListTasksRequest{All: true}))

	_, err = service.DeleteTask(task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskService_ToggleAndList(t *testing.T) {
	service, _ := newTaskService(t)
	a, _ := service.AddTask(AddTaskRequest{Title: "alpha"})
	b, _ := service.AddTask(AddTaskRequest{Title: "beta"})
	c, _ := service.AddTask(AddTaskRequest{Title: "gamma"})

	_, err := service.ToggleTask(a.ID)
	require.NoError(t, err)
	toggled, err := service.ToggleTask(c.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	active := service.ListTasks(ListTasksRequest{})
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)

	completed := service.ListTasks(ListTasksRequest{Completed: true})
	assert.Len(t, completed, 2)

	all := service.ListTasks(ListTasksRequest{All: true})
	require.Len(t, all, 3)
	assert.Equal(t, b.ID, all[0].ID)

	toggled, _ = service.ToggleTask(a.ID)
	assert.False(t, toggled.Completed)
}

func TestTaskService_Resolve(t *testing.T) {
	service, _ := newTaskService(t)
	report, _ := service.AddTask(AddTaskRequest{Title: "Write report"})
	review, _ := service.AddTask(AddTaskRequest{Title: "Review PR"})

	t.Run("exact id", func(t *testing.T) {
		got, err := service.Resolve(report.ID)
		require.NoError(t, err)
		assert.Equal(t, report.ID, got.ID)
	})

	t.Run("id prefix", func(t *testing.T) {
		got, err := service.Resolve(review.ID[:8])
		require.NoError(t, err)
		assert.Equal(t, review.ID, got.ID)
	})

	t.Run("fuzzy title", func(t *testing.T) {
		got, err := service.Resolve("wrrep")
		require.NoError(t, err)
		assert.Equal(t, report.ID, got.ID)
	})

	t.Run("exact title", func(t *testing.T) {
		got, err := service.Resolve("review pr")
		require.NoError(t, err)
		assert.Equal(t, review.ID, got.ID)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := service.Resolve("zzzz")
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("blank", func(t *testing.T) {
		_, err := service.Resolve("  ")
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}

func TestTaskService_ResolveAmbiguous(t *testing.T) {
	service, _ := newTaskService(t)
	_, _ = service.AddTask(AddTaskRequest{Title: "task one"})
	_, _ = service.AddTask(AddTaskRequest{Title: "task two"})

	_, err := service.Resolve("task")
	assert.ErrorIs(t, err, domain.ErrAmbiguousTaskRef)
}

func TestTaskService_SelectTask(t *testing.T) {
	service, _ := newTaskService(t)
	task, _ := service.AddTask(AddTaskRequest{Title: "Focus target"})

	selected, err := service.SelectTask("focus")
	require.NoError(t, err)
	assert.Equal(t, task.ID, selected.ID)
	assert.Equal(t, task.ID, service.CurrentTask().ID)

	_, err = service.SelectTask("nothing like it")
	assert.Error(t, err)
}
