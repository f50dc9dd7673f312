package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// Store persists settings as one JSON document. Writes go through a
// temp file and rename so a crash never leaves a half-written file.
type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]interface{}
}

// NewStore loads the document at path, tolerating a missing file. An
// empty path keeps the store memory-only.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]interface{})}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := sonic.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// Get returns the stored value for key.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores and persists a value.
func (s *Store) Set(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.persist()
}

// Delete removes a key and persists.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return s.persist()
}

// All returns a snapshot of every stored value.
func (s *Store) All() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// KnownFolder returns a user override for a known-folder alias, stored
// under "folders.<name>".
func (s *Store) KnownFolder(name string) (string, bool) {
	v, ok := s.Get("folders." + name)
	if !ok {
		return "", false
	}
	path, ok := v.(string)
	return path, ok && path != ""
}

// persist writes the document; callers hold the lock.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	data, err := sonic.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
