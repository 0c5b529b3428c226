// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// TaskService handles task-related use cases on top of the session
// controller's task store.
type TaskService struct {
	pomodoro *PomodoroService
}

// NewTaskService creates a new task service.
func NewTaskService(pomodoro *PomodoroService) *TaskService {
	return &TaskService{pomodoro: pomodoro}
}

// AddTaskRequest contains the data needed to create a new task.
type AddTaskRequest struct {
	Title        string
	EstPomodoros int
	Select       bool
}

// AddTask creates a new task, optionally making it current.
func (s *TaskService) AddTask(req AddTaskRequest) (*domain.Task, error) {
	var task *domain.Task
	err := s.pomodoro.WithTasks(func(store *domain.TaskStore) error {
		t, err := store.Create(req.Title, req.EstPomodoros)
		if err != nil {
			return err
		}
		if req.Select {
			_ = store.Select(t.ID)
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}
	return task, nil
}

// EditTaskRequest changes a task. Nil fields keep their current value.
type EditTaskRequest struct {
	Ref          string
	Title        *string
	EstPomodoros *int
}

// EditTask updates the title and/or estimate of a task.
func (s *TaskService) EditTask(req EditTaskRequest) (*domain.Task, error) {
	var task *domain.Task
	err := s.pomodoro.WithTasks(func(store *domain.TaskStore) error {
		current, err := resolve(store, req.Ref)
		if err != nil {
			return err
		}
		title, est := current.Title, current.EstPomodoros
		if req.Title != nil {
			title = *req.Title
		}
		if req.EstPomodoros != nil {
			est = *req.EstPomodoros
		}
		task, err = store.Edit(current.ID, title, est)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ref string) (*domain.Task, error) {
	var task *domain.Task
	err := s.pomodoro.WithTasks(func(store *domain.TaskStore) error {
		t, err := resolve(store, ref)
		if err != nil {
			return err
		}
		task = t
		return store.Delete(t.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	return task, nil
}

// ToggleTask flips the completed flag of a task.
func (s *TaskService) ToggleTask(ref string) (*domain.Task, error) {
	var task *domain.Task
	err := s.pomodoro.WithTasks(func(store *domain.TaskStore) error {
		t, err := resolve(store, ref)
		if err != nil {
			return err
		}
		task, err = store.ToggleComplete(t.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}
	return task, nil
}

// SelectTask makes a task the one credited with finished focus sessions.
func (s *TaskService) SelectTask(ref string) (*domain.Task, error) {
	var task *domain.Task
	err := s.pomodoro.WithTasks(func(store *domain.TaskStore) error {
		t, err := resolve(store, ref)
		if err != nil {
			return err
		}
		task = t
		return store.Select(t.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select task: %w", err)
	}
	return task, nil
}

// ClearCurrent drops the current task selection.
func (s *TaskService) ClearCurrent() {
	_ = s.pomodoro.WithTasks(func(store *domain.TaskStore) error {
		store.ClearCurrent()
		return nil
	})
}

// CurrentTask returns the current task, or nil.
func (s *TaskService) CurrentTask() *domain.Task {
	var task *domain.Task
	s.pomodoro.ReadTasks(func(store *domain.TaskStore) {
		task = store.Current()
	})
	return task
}

// ListTasksRequest contains filters for listing tasks.
type ListTasksRequest struct {
	Completed bool
	All       bool
}

// ListTasks returns active tasks oldest first, or completed tasks newest
// first. All returns active followed by completed.
func (s *TaskService) ListTasks(req ListTasksRequest) []*domain.Task {
	var out []*domain.Task
	s.pomodoro.ReadTasks(func(store *domain.TaskStore) {
		switch {
		case req.All:
			out = append(store.Active(), store.Completed()...)
		case req.Completed:
			out = store.Completed()
		default:
			out = store.Active()
		}
	})
	return out
}

// Resolve finds a task by exact id, unique id prefix, or fuzzy title match.
func (s *TaskService) Resolve(ref string) (*domain.Task, error) {
	var (
		task *domain.Task
		err  error
	)
	s.pomodoro.ReadTasks(func(store *domain.TaskStore) {
		task, err = resolve(store, ref)
	})
	return task, err
}

func resolve(store *domain.TaskStore, ref string) (*domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrTaskNotFound
	}
	if t, err := store.Get(ref); err == nil {
		return t, nil
	}

	all := store.All()
	var prefixed []*domain.Task
	for _, t := range all {
		if strings.HasPrefix(t.ID, ref) {
			prefixed = append(prefixed, t)
		}
	}
	switch len(prefixed) {
	case 1:
		return prefixed[0], nil
	case 0:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrAmbiguousTaskRef, ref)
	}

	titles := make([]string, len(all))
	for i, t := range all {
		titles[i] = t.Title
	}
	matches := fuzzy.Find(ref, titles)
	if len(matches) == 0 {
		return nil, domain.ErrTaskNotFound
	}
	if len(matches) > 1 && matches[0].Score == matches[1].Score && !strings.EqualFold(titles[matches[0].Index], ref) {
		return nil, fmt.Errorf("%w: %q", domain.ErrAmbiguousTaskRef, ref)
	}
	return all[matches[0].Index], nil
}
