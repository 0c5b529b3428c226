package notification

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// Ambient tracks the ambient noise that should be playing. Terminals have
// no audio output, so it records the current noise for display and logs
// every transition.
type Ambient struct {
	mu      sync.Mutex
	current domain.NoiseType
	logger  *log.Logger
}

// Ensure Ambient implements ports.Ambient.
var _ ports.Ambient = (*Ambient)(nil)

// NewAmbient creates an ambient indicator.
func NewAmbient(logger *log.Logger) *Ambient {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Ambient{logger: logger}
}

// Start switches to noise n. Starting the same noise twice is a no-op.
func (a *Ambient) Start(n domain.NoiseType) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == n {
		return nil
	}
	a.current = n
	a.logger.Debug("ambient noise started", "noise", n, "cutoff_hz", n.FilterFrequency())
	return nil
}

// Stop silences the ambient noise.
func (a *Ambient) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == "" {
		return nil
	}
	a.logger.Debug("ambient noise stopped", "noise", a.current)
	a.current = ""
	return nil
}

// Current returns the playing noise, or "" when silent.
func (a *Ambient) Current() domain.NoiseType {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}
