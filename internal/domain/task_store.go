package domain

import (
	"sort"
	"time"
)

// TaskStore is the ordered task collection plus the weak reference to the
// task currently credited with focus sessions.
// It is not safe for concurrent use; the owning session controller serializes access.
type TaskStore struct {
	tasks     []*Task
	currentID string
	now       func() time.Time
}

// NewTaskStore creates an empty task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{now: time.Now}
}

// RestoreTaskStore rebuilds a store from persisted tasks.
// A current id that names no task is kept as given and reads as no task.
func RestoreTaskStore(tasks []*Task, currentID string) *TaskStore {
	s := NewTaskStore()
	for _, t := range tasks {
		if t != nil {
			s.tasks = append(s.tasks, t.clone())
		}
	}
	s.currentID = currentID
	return s
}

// SetClock overrides the creation timestamp source.
func (s *TaskStore) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Create appends a new task and returns a copy of it.
func (s *TaskStore) Create(title string, estPomodoros int) (*Task, error) {
	task, err := NewTask(title, estPomodoros)
	if err != nil {
		return nil, err
	}
	task.CreatedAt = s.now()
	s.tasks = append(s.tasks, task)
	return task.clone(), nil
}

// Edit changes the title and estimate of the task with the given id.
func (s *TaskStore) Edit(id, title string, estPomodoros int) (*Task, error) {
	task := s.find(id)
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if err := task.Edit(title, estPomodoros); err != nil {
		return nil, err
	}
	return task.clone(), nil
}

// Delete removes a task. Deleting the current task clears the selection.
func (s *TaskStore) Delete(id string) error {
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			if s.currentID == id {
				s.currentID = ""
			}
			return nil
		}
	}
	return ErrTaskNotFound
}

// ToggleComplete flips the completed flag of a task.
func (s *TaskStore) ToggleComplete(id string) (*Task, error) {
	task := s.find(id)
	if task == nil {
		return nil, ErrTaskNotFound
	}
	task.ToggleComplete()
	return task.clone(), nil
}

// Select makes the task with the given id the current task.
func (s *TaskStore) Select(id string) error {
	if s.find(id) == nil {
		return ErrTaskNotFound
	}
	s.currentID = id
	return nil
}

// ClearCurrent drops the current task selection.
func (s *TaskStore) ClearCurrent() {
	s.currentID = ""
}

// CurrentID returns the raw current-task reference, which may be dangling.
func (s *TaskStore) CurrentID() string {
	return s.currentID
}

// Current returns a copy of the current task, or nil when none is selected
// or the reference no longer resolves.
func (s *TaskStore) Current() *Task {
	if s.currentID == "" {
		return nil
	}
	if t := s.find(s.currentID); t != nil {
		return t.clone()
	}
	return nil
}

// CreditPomodoro credits one focus session to the current task.
// Reaching the estimate marks the task completed and clears the selection.
// It returns a copy of the credited task, or nil when there was none.
func (s *TaskStore) CreditPomodoro() *Task {
	task := s.find(s.currentID)
	if task == nil {
		return nil
	}
	if task.AddPomodoro() {
		s.currentID = ""
	}
	return task.clone()
}

// Get returns a copy of the task with the given id.
func (s *TaskStore) Get(id string) (*Task, error) {
	if t := s.find(id); t != nil {
		return t.clone(), nil
	}
	return nil, ErrTaskNotFound
}

// All returns copies of every task in insertion order.
func (s *TaskStore) All() []*Task {
	out := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.clone())
	}
	return out
}

// Active returns the incomplete tasks, oldest first.
func (s *TaskStore) Active() []*Task {
	out := s.filter(false)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Completed returns the completed tasks, newest first.
func (s *TaskStore) Completed() []*Task {
	out := s.filter(true)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

func (s *TaskStore) filter(completed bool) []*Task {
	var out []*Task
	for _, t := range s.tasks {
		if t.Completed == completed {
			out = append(out, t.clone())
		}
	}
	return out
}

func (s *TaskStore) find(id string) *Task {
	if id == "" {
		return nil
	}
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
