package ports

import (
	"context"

	"github.com/xvierd/pomo-cli/internal/domain"
)

// EffectSink executes the side effects requested by timer transitions.
// This is a driven port (implemented by the services layer). Effects must
// be executed in the order they are given.
type EffectSink interface {
	Dispatch(effects []domain.Effect)
}

// Timer is the interactive timer interface.
// This is a driving port (called by the application layer).
type Timer interface {
	// Run starts the timer interface and blocks until the user quits or ctx is cancelled.
	Run(ctx context.Context) error

	// Stop gracefully stops the timer interface.
	Stop()
}
