package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xvierd/pomo-cli/internal/ports"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendJSON   Backend = "json"
)

// DBFileName is the SQLite database created inside the data directory.
const DBFileName = "pomo.db"

// Open creates the store for backend. path overrides the default file
// inside dataDir when non-empty.
func Open(backend Backend, dataDir, path string) (ports.StateStore, error) {
	switch backend {
	case BackendJSON:
		if path == "" {
			path = filepath.Join(dataDir, FileName)
		}
		return NewFile(path)
	case BackendSQLite, "":
		if path == "" {
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
			path = filepath.Join(dataDir, DBFileName)
		}
		return New(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
