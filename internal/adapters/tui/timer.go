package tui

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// effectQueueSize bounds the effects waiting for the dispatcher goroutine.
const effectQueueSize = 16

// Timer implements the ports.Timer interface using Bubbletea.
type Timer struct {
	ctrl    Controller
	tasks   TaskManager
	sink    ports.EffectSink
	theme   *config.ThemeConfig
	logger  *log.Logger
	effects chan []domain.Effect

	mu      sync.RWMutex
	wg      sync.WaitGroup
	program *tea.Program
	cancel  context.CancelFunc
}

// NewTimer creates a new TUI timer adapter. Effects are executed by sink
// off the UI goroutine so slow notifications never stall a tick.
func NewTimer(ctrl Controller, tasks TaskManager, sink ports.EffectSink, theme *config.ThemeConfig, logger *log.Logger) *Timer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Timer{
		ctrl:    ctrl,
		tasks:   tasks,
		sink:    sink,
		theme:   theme,
		logger:  logger,
		effects: make(chan []domain.Effect, effectQueueSize),
	}
}

// enqueue hands effects to the dispatcher goroutine, preserving order.
// It never blocks the UI: a batch that finds the queue full is dropped.
func (t *Timer) enqueue(effects []domain.Effect) {
	if t.sink == nil || len(effects) == 0 {
		return
	}
	select {
	case t.effects <- effects:
	default:
		t.logger.Warn("effect queue full, dropping effects", "count", len(effects), "first", effects[0].Kind)
	}
}

// Run starts the timer interface and blocks until completion.
func (t *Timer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(t.ctrl, t.tasks, t.enqueue, t.theme)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	t.mu.Lock()
	t.program = program
	t.cancel = cancel
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case effects := <-t.effects:
				t.sink.Dispatch(effects)
			case <-ctx.Done():
				t.drain()
				return
			}
		}
	}()

	_, err := program.Run()
	stopped := ctx.Err() != nil

	cancel()
	t.wg.Wait()

	if err != nil && !stopped {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// drain executes effects queued before shutdown, such as the final ambient stop.
func (t *Timer) drain() {
	for {
		select {
		case effects := <-t.effects:
			t.sink.Dispatch(effects)
		default:
			return
		}
	}
}

// Stop gracefully stops the timer interface.
func (t *Timer) Stop() {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.cancel != nil {
		t.cancel()
	}
	if t.program != nil {
		t.program.Quit()
	}
}

// Ensure Timer implements ports.Timer.
var _ ports.Timer = (*Timer)(nil)
