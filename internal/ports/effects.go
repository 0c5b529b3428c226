package ports

import "github.com/xvierd/pomo-cli/internal/domain"

// Notifier delivers a desktop notification.
// This is a driven port (implemented by adapters). Delivery is fire-and-forget.
type Notifier interface {
	Notify(title, body string) error
}

// Chime plays the short phase-change sound.
// This is a driven port (implemented by adapters).
type Chime interface {
	Play() error
}

// Ambient controls the looping background noise.
// This is a driven port (implemented by adapters).
type Ambient interface {
	// Start begins (or switches to) the given noise.
	Start(noise domain.NoiseType) error

	// Stop silences the noise. Stopping while silent is a no-op.
	Stop() error
}
