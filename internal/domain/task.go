// Package domain contains the core entities of the pomodoro timer: settings,
// tasks, daily statistics and the session state machine rules.
// It is independent of any external frameworks or infrastructure.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrEmptyTaskTitle   = errors.New("task title cannot be empty")
	ErrTaskNotFound     = errors.New("task not found")
	ErrAmbiguousTaskRef = errors.New("task reference matches more than one task")
	ErrInvalidPhase     = errors.New("invalid phase")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrUnknownSetting   = errors.New("unknown setting")
)

// Task is a unit of work that focus sessions are credited to.
type Task struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	EstPomodoros       int       `json:"estPomodoros"`
	CompletedPomodoros int       `json:"completedPomodoros"`
	Completed          bool      `json:"completed"`
	CreatedAt          time.Time `json:"-"`
}

// NewTask creates a task with a trimmed title. Estimates below one are raised to one.
func NewTask(title string, estPomodoros int) (*Task, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	return &Task{
		ID:           generateID(),
		Title:        title,
		EstPomodoros: max(1, estPomodoros),
		CreatedAt:    time.Now(),
	}, nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTaskTitle
	}
	return title, nil
}

// Edit replaces the title and estimate. The completed count is kept within
// the new estimate. The task is left untouched on error.
func (t *Task) Edit(title string, estPomodoros int) error {
	title, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	t.Title = title
	t.EstPomodoros = max(1, estPomodoros)
	t.CompletedPomodoros = min(t.CompletedPomodoros, t.EstPomodoros)
	return nil
}

// AddPomodoro credits one finished focus session, capped at the estimate.
// It reports whether the task is at its estimate after the credit, in which
// case it is marked completed. A task already at the cap completes again.
func (t *Task) AddPomodoro() bool {
	t.CompletedPomodoros = min(t.CompletedPomodoros+1, t.EstPomodoros)
	if t.CompletedPomodoros >= t.EstPomodoros {
		t.Completed = true
		return true
	}
	return false
}

// ToggleComplete flips the completed flag.
func (t *Task) ToggleComplete() {
	t.Completed = !t.Completed
}

// Progress returns the completed share of the estimate in [0,1].
func (t *Task) Progress() float64 {
	if t.EstPomodoros <= 0 {
		return 0
	}
	return float64(t.CompletedPomodoros) / float64(t.EstPomodoros)
}

// ShortID returns the first eight characters of the id for display.
func (t *Task) ShortID() string {
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}

func (t *Task) clone() *Task {
	c := *t
	return &c
}
