package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type MemoryStore struct {
	mu     sync.Mutex
	record Record
}

func NewMemoryStore(userID string) *MemoryStore {
	return &MemoryStore{record: Record{UserID: userID}}
}

func (m *MemoryStore) Load() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record, nil
}

func (m *MemoryStore) Save(r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = r
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = Record{}
	return nil
}

// FileStore keeps the record as JSON on disk, for the terminal client.
type FileStore struct {
	Path string
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error finding home dir: %w", err)
	}
	return filepath.Join(home, ".blogctl", "session.json"), nil
}

func (f *FileStore) Load() (Record, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("error reading %s: %w", f.Path, err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("error unmarshalling %s: %w", f.Path, err)
	}
	return r, nil
}

func (f *FileStore) Save(r Record) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("error creating session dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling session: %w", err)
	}
	return os.WriteFile(f.Path, data, 0o600)
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error removing %s: %w", f.Path, err)
	}
	return nil
}
