package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/xvierd/pomo-cli/internal/ports"
	"github.com/xvierd/pomo-cli/internal/snapshot"
)

// FileName is the JSON store file created inside the data directory.
const FileName = "pomodoro-store.json"

// fileStore implements ports.StateStore on a JSON document that maps the
// snapshot key to the snapshot.
type fileStore struct {
	mu   sync.Mutex
	path string
	key  string
}

var _ ports.StateStore = (*fileStore)(nil)

// NewFile creates a JSON file store at path. The file is created on first save.
func NewFile(path string) (ports.StateStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &fileStore{path: path, key: snapshot.Key}, nil
}

func (s *fileStore) readDocument() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	doc := map[string]json.RawMessage{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	return doc, nil
}

// Load returns the stored snapshot, or nil when none was saved yet.
func (s *fileStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[s.key]
	if !ok {
		return nil, nil
	}
	return raw, nil
}

// Save atomically replaces the store file with the updated document.
func (s *fileStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !json.Valid(data) {
		return errors.New("failed to write store file: snapshot is not valid JSON")
	}

	doc, err := s.readDocument()
	if err != nil {
		// Unreadable documents are overwritten.
		doc = map[string]json.RawMessage{}
	}
	doc[s.key] = json.RawMessage(data)

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}

	if err := renameio.WriteFile(s.path, out, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *fileStore) Close() error {
	return nil
}
