package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultSaveDebounce is the quiet period before a pending save is written.
const DefaultSaveDebounce = 300 * time.Millisecond

// Saver is anything that can persist its state.
type Saver interface {
	Save(ctx context.Context) error
}

// Autosaver coalesces bursts of change notifications into one save after
// a quiet period. The in-memory state stays authoritative; a failed save
// is logged and retried on the next change.
type Autosaver struct {
	saver    Saver
	debounce time.Duration
	logger   *log.Logger

	// saveMu serializes writes between the timer and Flush.
	saveMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	stopped bool
}

// NewAutosaver creates an autosaver. A non-positive debounce uses DefaultSaveDebounce.
func NewAutosaver(saver Saver, debounce time.Duration, logger *log.Logger) *Autosaver {
	if debounce <= 0 {
		debounce = DefaultSaveDebounce
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Autosaver{saver: saver, debounce: debounce, logger: logger}
}

// Notify schedules a save, restarting the quiet period.
func (a *Autosaver) Notify() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.pending = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, a.fire)
}

func (a *Autosaver) fire() {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	if !a.pending || a.stopped {
		a.mu.Unlock()
		return
	}
	a.pending = false
	a.mu.Unlock()

	a.save()
}

// save must be called with saveMu held.
func (a *Autosaver) save() {
	if err := a.saver.Save(context.Background()); err != nil {
		a.logger.Error("autosave failed", "err", err)
	}
}

// Flush writes a pending save immediately.
func (a *Autosaver) Flush() {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	pending := a.pending
	a.pending = false
	a.mu.Unlock()

	if pending {
		a.save()
	}
}

// Stop ignores later notifications and flushes any pending save, waiting
// for a save already in flight.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()

	a.Flush()
}
