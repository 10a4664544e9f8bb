package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RetentionDays is how long sessions are kept before cleanup.
const RetentionDays = 30

// FileStore manages session files under a base directory, one JSON file
// per session.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a session store rooted at baseDir and runs a
// retention cleanup in the background.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	store := &FileStore{baseDir: baseDir}
	go store.Cleanup()
	return store, nil
}

// Active implements Store.
func (s *FileStore) Active(userID int) (*Session, error) {
	sessions, err := s.List(userID, 0)
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		if sess.Active {
			return sess, nil
		}
	}
	return nil, nil
}

// Create implements Store.
func (s *FileStore) Create(userID int) (*Session, error) {
	if active, err := s.Active(userID); err == nil && active != nil {
		active.Active = false
		if err := s.save(active); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
	}
	if err := s.save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Append implements Store.
func (s *FileStore) Append(sessionID string, msg Message) error {
	sess, err := s.load(sessionID)
	if err != nil {
		return err
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	sess.Messages = append(sess.Messages, msg)

	// First user message doubles as the session title.
	if sess.Title == "" && msg.Role == RoleUser {
		sess.Title = title(msg.Content)
	}
	return s.save(sess)
}

func title(content string) string {
	words := strings.Fields(content)
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.Join(words, " ")
}

// Messages implements Store.
func (s *FileStore) Messages(sessionID string) ([]Message, error) {
	sess, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Messages, nil
}

// List implements Store.
func (s *FileStore) List(userID int, limit int) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessions []*Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		sess, err := s.loadWithoutLock(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue // skip invalid session files
		}
		if sess.UserID != userID {
			continue
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// Close implements Store.
func (s *FileStore) Close(sessionID string) error {
	sess, err := s.load(sessionID)
	if err != nil {
		return err
	}
	sess.Active = false
	return s.save(sess)
}

// Cleanup removes sessions older than RetentionDays.
func (s *FileStore) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sessions directory: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -RetentionDays)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		sess, err := s.loadWithoutLock(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		if sess.UpdatedAt.Before(cutoff) {
			_ = os.Remove(filepath.Join(s.baseDir, entry.Name()))
		}
	}
	return nil
}

func (s *FileStore) save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.UpdatedAt = time.Now()
	sess.MessageCount = len(sess.Messages)

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	path := filepath.Join(s.baseDir, sess.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (s *FileStore) load(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadWithoutLock(id)
}

// loadWithoutLock loads a session without acquiring the lock.
func (s *FileStore) loadWithoutLock(id string) (*Session, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &sess, nil
}

// MemStore is an in-memory Store used by tests.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemStore creates an empty in-memory session store.
func NewMemStore() *MemStore {
	return &MemStore{sessions: make(map[string]*Session)}
}

// Active implements Store.
func (s *MemStore) Active(userID int) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.UserID == userID && sess.Active {
			return sess, nil
		}
	}
	return nil, nil
}

// Create implements Store.
func (s *MemStore) Create(userID int) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			sess.Active = false
		}
	}
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

// Append implements Store.
func (s *MemStore) Append(sessionID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	sess.Messages = append(sess.Messages, msg)
	sess.MessageCount = len(sess.Messages)
	sess.UpdatedAt = time.Now()
	if sess.Title == "" && msg.Role == RoleUser {
		sess.Title = title(msg.Content)
	}
	return nil
}

// Messages implements Store.
func (s *MemStore) Messages(sessionID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	return sess.Messages, nil
}

// List implements Store.
func (s *MemStore) List(userID int, limit int) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Session
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close implements Store.
func (s *MemStore) Close(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}
	sess.Active = false
	return nil
}
