// Package ports defines the interfaces (driven and driving ports)
// for the pomo application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
)

// StateStore persists the application snapshot as an opaque blob.
// This is a driven port (implemented by adapters).
type StateStore interface {
	// Load returns the saved snapshot, or nil with no error on first run.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the saved snapshot.
	Save(ctx context.Context, data []byte) error

	// Close releases the underlying resources.
	Close() error
}
