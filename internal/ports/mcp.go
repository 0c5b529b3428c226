package ports

import (
	"context"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/stats"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides state and timer controls to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// GetStatus returns the current timer view.
	GetStatus(ctx context.Context) (*domain.Status, error)

	// ListTasks returns tasks; nil completed returns every task.
	ListTasks(ctx context.Context, completed *bool) ([]*domain.Task, error)

	// CreateTask adds a task.
	CreateTask(ctx context.Context, title string, estPomodoros int) (*domain.Task, error)

	// ToggleTask flips the completed flag of the referenced task.
	ToggleTask(ctx context.Context, ref string) (*domain.Task, error)

	// SelectTask makes the referenced task current.
	SelectTask(ctx context.Context, ref string) (*domain.Task, error)

	// StartTimer, PauseTimer, ResetTimer and SkipPhase drive the countdown.
	StartTimer(ctx context.Context) (*domain.Status, error)
	PauseTimer(ctx context.Context) (*domain.Status, error)
	ResetTimer(ctx context.Context) (*domain.Status, error)
	SkipPhase(ctx context.Context) (*domain.Status, error)

	// SelectPhase jumps to a phase.
	SelectPhase(ctx context.Context, phase domain.Phase) (*domain.Status, error)

	// GetHistory returns the statistics report for a range.
	GetHistory(ctx context.Context, r stats.TimeRange) (*stats.Report, error)
}
