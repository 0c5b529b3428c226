package services

import (
	"context"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
	"github.com/xvierd/pomo-cli/internal/stats"
)

// StateService implements the MCPStateProvider interface on top of the
// controller, executing transition effects as they are produced.
type StateService struct {
	pomodoro   *PomodoroService
	tasks      *TaskService
	stats      *StatsService
	dispatcher *EffectDispatcher
}

// NewStateService creates a new state service.
func NewStateService(pomodoro *PomodoroService, tasks *TaskService, statsSvc *StatsService, dispatcher *EffectDispatcher) *StateService {
	return &StateService{
		pomodoro:   pomodoro,
		tasks:      tasks,
		stats:      statsSvc,
		dispatcher: dispatcher,
	}
}

func (s *StateService) status(effects []domain.Effect) *domain.Status {
	s.dispatcher.Dispatch(effects)
	st := s.pomodoro.Status()
	return &st
}

// GetStatus implements ports.MCPStateProvider.
func (s *StateService) GetStatus(ctx context.Context) (*domain.Status, error) {
	return s.status(nil), nil
}

// ListTasks implements ports.MCPStateProvider.
func (s *StateService) ListTasks(ctx context.Context, completed *bool) ([]*domain.Task, error) {
	if completed == nil {
		return s.tasks.ListTasks(ListTasksRequest{All: true}), nil
	}
	return s.tasks.ListTasks(ListTasksRequest{Completed: *completed}), nil
}

// CreateTask implements ports.MCPStateProvider.
func (s *StateService) CreateTask(ctx context.Context, title string, estPomodoros int) (*domain.Task, error) {
	return s.tasks.AddTask(AddTaskRequest{Title: title, EstPomodoros: estPomodoros})
}

// ToggleTask implements ports.MCPStateProvider.
func (s *StateService) ToggleTask(ctx context.Context, ref string) (*domain.Task, error) {
	return s.tasks.ToggleTask(ref)
}

// SelectTask implements ports.MCPStateProvider.
func (s *StateService) SelectTask(ctx context.Context, ref string) (*domain.Task, error) {
	return s.tasks.SelectTask(ref)
}

// StartTimer implements ports.MCPStateProvider.
func (s *StateService) StartTimer(ctx context.Context) (*domain.Status, error) {
	return s.status(s.pomodoro.Start()), nil
}

// PauseTimer implements ports.MCPStateProvider.
func (s *StateService) PauseTimer(ctx context.Context) (*domain.Status, error) {
	return s.status(s.pomodoro.Pause()), nil
}

// ResetTimer implements ports.MCPStateProvider.
func (s *StateService) ResetTimer(ctx context.Context) (*domain.Status, error) {
	return s.status(s.pomodoro.Reset()), nil
}

// SkipPhase implements ports.MCPStateProvider.
func (s *StateService) SkipPhase(ctx context.Context) (*domain.Status, error) {
	return s.status(s.pomodoro.Skip()), nil
}

// SelectPhase implements ports.MCPStateProvider.
func (s *StateService) SelectPhase(ctx context.Context, phase domain.Phase) (*domain.Status, error) {
	effects, err := s.pomodoro.SelectPhase(phase)
	if err != nil {
		return nil, err
	}
	return s.status(effects), nil
}

// GetHistory implements ports.MCPStateProvider.
func (s *StateService) GetHistory(ctx context.Context, r stats.TimeRange) (*stats.Report, error) {
	report := s.stats.Report(r)
	return &report, nil
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
