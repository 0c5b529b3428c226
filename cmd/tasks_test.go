package cmd

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/domain"
)

func TestAddAndList(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "add", "Write", "report", "--est", "3")
	assert.Contains(t, out, "✅ Task added: Write report")
	assert.Contains(t, out, "est. 3")

	out = env.mustRun(t, "list")
	assert.Contains(t, out, "📋 Tasks (1):")
	assert.Contains(t, out, "Write report  0/3")

	out = env.mustRun(t, "list", "--json")
	var payload struct {
		Tasks []map[string]interface{} `json:"tasks"`
		Count int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, 1, payload.Count)
	assert.Equal(t, "Write report", payload.Tasks[0]["title"])
	assert.EqualValues(t, 3, payload.Tasks[0]["est_pomodoros"])
}

func TestAdd_BlankTitle(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "add", "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
}

func TestList_Empty(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "list")
	assert.Contains(t, out, "No tasks found.")
}

func TestAdd_SelectShowsInStatus(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun(t, "add", "Draft slides", "--select")

	out := env.mustRun(t, "status")
	assert.Contains(t, out, "📋 当前任务: Draft slides (0/1)")

	out = env.mustRun(t, "list")
	assert.Contains(t, out, "★")

	env.mustRun(t, "unselect")
	out = env.mustRun(t, "status")
	assert.Contains(t, out, "📋 当前任务: 未选择任务")
}

func TestSelectByTitle(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Review pull request")

	out := env.mustRun(t, "select", "Review pull request")
	assert.Contains(t, out, "🎯 Current task: Review pull request")

	_, _, err := env.run(t, "select", "zzzz qqqq")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestEditAndDone(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Old title")

	out := env.mustRun(t, "edit", "Old title", "--title", "New title", "--est", "2")
	assert.Contains(t, out, "New title")

	out = env.mustRun(t, "done", "New title")
	assert.Contains(t, out, "✅ Task completed: New title")

	assert.Contains(t, env.mustRun(t, "list"), "No tasks found.")
	assert.Contains(t, env.mustRun(t, "list", "--completed"), "New title  0/2")

	out = env.mustRun(t, "done", "New title")
	assert.Contains(t, out, "↩️  Task reopened: New title")
}

func TestEdit_NothingToChange(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Some task")

	_, _, err := env.run(t, "edit", "Some task")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Throwaway task", "--select")

	out := env.mustRun(t, "delete", "Throwaway task")
	assert.Contains(t, out, "🗑️  Task deleted: Throwaway task")
	assert.Contains(t, env.mustRun(t, "list", "--all"), "No tasks found.")
	assert.Contains(t, env.mustRun(t, "status"), "未选择任务")

	_, _, err := env.run(t, "rm", "Throwaway task")
	assert.Error(t, err)
}

func TestDeleteCmd_ValidateArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"no args", []string{}, true},
		{"one arg", []string{"task-123"}, false},
		{"two args", []string{"task-123", "task-456"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := deleteCmd.Args(deleteCmd, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskJSON(t *testing.T) {
	task := &domain.Task{
		ID:                 "0123456789abcdef",
		Title:              "Test Task",
		EstPomodoros:       4,
		CompletedPomodoros: 1,
		CreatedAt:          time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	got := taskJSON(task)
	assert.Equal(t, "0123456789abcdef", got["id"])
	assert.Equal(t, "Test Task", got["title"])
	assert.Equal(t, 4, got["est_pomodoros"])
	assert.Equal(t, 1, got["completed_pomodoros"])
	assert.Equal(t, false, got["completed"])
	assert.Equal(t, "2024-01-01T12:00:00", got["created_at"])
}

func TestTaskIcon(t *testing.T) {
	assert.Equal(t, "⏳", taskIcon(&domain.Task{}))
	assert.Equal(t, "▶️", taskIcon(&domain.Task{CompletedPomodoros: 1}))
	assert.Equal(t, "✅", taskIcon(&domain.Task{Completed: true, CompletedPomodoros: 1}))
}
