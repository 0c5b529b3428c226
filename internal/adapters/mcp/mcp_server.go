// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
	"github.com/xvierd/pomo-cli/internal/stats"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"pomo",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_status",
			mcp.WithDescription("Get the timer state: phase, countdown, cycle position, current task and today's statistics"),
		),
		s.handleGetStatus,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_tasks",
			mcp.WithDescription("List tasks. Active tasks are oldest first, completed tasks newest first"),
			mcp.WithString(
				"filter",
				mcp.Description("Which tasks to return (default: all)"),
				mcp.Enum("all", "active", "completed"),
			),
		),
		s.handleListTasks,
	)

	s.server.AddTool(
		mcp.NewTool(
			"create_task",
			mcp.WithDescription("Create a new task"),
			mcp.WithString(
				"title",
				mcp.Required(),
				mcp.Description("The title of the task"),
			),
			mcp.WithNumber(
				"est_pomodoros",
				mcp.Description("Estimated number of focus sessions (default: 1)"),
			),
		),
		s.handleCreateTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"toggle_task",
			mcp.WithDescription("Toggle a task between active and completed"),
			mcp.WithString(
				"task",
				mcp.Required(),
				mcp.Description("Task ID, ID prefix or title"),
			),
		),
		s.handleToggleTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"select_task",
			mcp.WithDescription("Make a task current so finished focus sessions are credited to it"),
			mcp.WithString(
				"task",
				mcp.Required(),
				mcp.Description("Task ID, ID prefix or title"),
			),
		),
		s.handleSelectTask,
	)

	s.server.AddTool(
		mcp.NewTool("start_timer", mcp.WithDescription("Start or resume the countdown")),
		s.timerHandler(s.stateProvider.StartTimer),
	)
	s.server.AddTool(
		mcp.NewTool("pause_timer", mcp.WithDescription("Pause a running countdown")),
		s.timerHandler(s.stateProvider.PauseTimer),
	)
	s.server.AddTool(
		mcp.NewTool("reset_timer", mcp.WithDescription("Restore the full duration of the current phase and stop")),
		s.timerHandler(s.stateProvider.ResetTimer),
	)
	s.server.AddTool(
		mcp.NewTool("skip_phase", mcp.WithDescription("Advance to the next phase without recording progress")),
		s.timerHandler(s.stateProvider.SkipPhase),
	)

	s.server.AddTool(
		mcp.NewTool(
			"select_phase",
			mcp.WithDescription("Jump to a phase with its full duration, stopped"),
			mcp.WithString(
				"phase",
				mcp.Required(),
				mcp.Description("The phase to switch to"),
				mcp.Enum("work", "shortBreak", "longBreak"),
			),
		),
		s.handleSelectPhase,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_history",
			mcp.WithDescription("Get daily focus statistics with totals"),
			mcp.WithString(
				"range",
				mcp.Description("Time range (default: 7days)"),
				mcp.Enum("7days", "30days", "all"),
			),
		),
		s.handleGetHistory,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	// Start the stdio server
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError reports user errors to the model instead of failing the call.
func toolError(err error) (*mcp.CallToolResult, error) {
	if isUserError(err) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

func isUserError(err error) bool {
	return errors.Is(err, domain.ErrTaskNotFound) ||
		errors.Is(err, domain.ErrAmbiguousTaskRef) ||
		errors.Is(err, domain.ErrEmptyTaskTitle) ||
		errors.Is(err, domain.ErrInvalidPhase) ||
		errors.Is(err, domain.ErrInvalidTimeRange)
}

func taskData(t *domain.Task) map[string]interface{} {
	return map[string]interface{}{
		"id":                  t.ID,
		"title":               t.Title,
		"est_pomodoros":       t.EstPomodoros,
		"completed_pomodoros": t.CompletedPomodoros,
		"completed":           t.Completed,
		"created_at":          t.CreatedAt.Format("2006-01-02T15:04:05"),
	}
}

// handleGetStatus handles the get_status tool.
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.stateProvider.GetStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return jsonResult(status)
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := request.GetString("filter", "all")

	var completed *bool
	switch filter {
	case "all", "":
	case "active":
		v := false
		completed = &v
	case "completed":
		v := true
		completed = &v
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown filter %q", filter)), nil
	}

	tasks, err := s.stateProvider.ListTasks(ctx, completed)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	list := make([]map[string]interface{}, 0, len(tasks))
	for _, t := range tasks {
		list = append(list, taskData(t))
	}

	return jsonResult(map[string]interface{}{
		"tasks":       list,
		"total_count": len(list),
		"filter":      filter,
	})
}

// handleCreateTask handles the create_task tool.
func (s *Server) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}
	est := int(request.GetFloat("est_pomodoros", 1))

	task, err := s.stateProvider.CreateTask(ctx, title, est)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(taskData(task))
}

// handleToggleTask handles the toggle_task tool.
func (s *Server) handleToggleTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError("task is required: " + err.Error()), nil
	}
	task, err := s.stateProvider.ToggleTask(ctx, ref)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(taskData(task))
}

// handleSelectTask handles the select_task tool.
func (s *Server) handleSelectTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError("task is required: " + err.Error()), nil
	}
	task, err := s.stateProvider.SelectTask(ctx, ref)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(taskData(task))
}

// timerHandler adapts a timer control to a tool handler returning the new status.
func (s *Server) timerHandler(control func(ctx context.Context) (*domain.Status, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status, err := control(ctx)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(status)
	}
}

// handleSelectPhase handles the select_phase tool.
func (s *Server) handleSelectPhase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("phase")
	if err != nil {
		return mcp.NewToolResultError("phase is required: " + err.Error()), nil
	}
	phase, err := domain.ParsePhase(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := s.stateProvider.SelectPhase(ctx, phase)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(status)
}

// handleGetHistory handles the get_history tool.
func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, err := stats.ParseTimeRange(request.GetString("range", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.stateProvider.GetHistory(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return jsonResult(report)
}
