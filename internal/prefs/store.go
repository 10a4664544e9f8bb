package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is the key-value settings collaborator preferences persist through.
// Keys are opaque to the store; the engine scopes them per user or site.
type Store interface {
	// Get returns the stored value for key, or ok=false when absent.
	Get(key string) (map[string]any, bool)

	// Set stores the value under key, replacing any previous value.
	Set(key string, value map[string]any) error

	// Delete removes the stored value for key.
	Delete(key string) error
}

// MemStore is an in-memory Store used by tests.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]map[string]any
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]map[string]any)}
}

// Get implements Store.
func (s *MemStore) Get(key string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set implements Store.
func (s *MemStore) Set(key string, value map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete implements Store.
func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FileStore persists each key as a pretty-printed JSON file under baseDir.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-backed store rooted at baseDir, creating the
// directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{baseDir: baseDir}, nil
}

// path maps a key to a file path. Colons in keys become dashes so scoped
// keys like "user:3:prefs" stay filesystem-safe.
func (s *FileStore) path(key string) string {
	safe := strings.ReplaceAll(key, ":", "-")
	return filepath.Join(s.baseDir, safe+".json")
}

// Get implements Store.
func (s *FileStore) Get(key string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	var value map[string]any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}
	return value, true
}

// Set implements Store.
func (s *FileStore) Set(key string, value map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0644)
}

// Delete implements Store.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
