package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store holds the process-wide session token.
type Store interface {
	// Token returns the stored token and whether one is present.
	Token() (string, bool)
	SetToken(token string) error
	Clear() error
}

// FileStore persists the token in a single file, readable only by the owner.
// An override token (from GYMBOOK_TOKEN) takes precedence over the file until
// the store is cleared or a new token is set.
type FileStore struct {
	mu       sync.Mutex
	path     string
	override string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path, override string) *FileStore {
	return &FileStore{path: path, override: strings.TrimSpace(override)}
}

// Path returns the token file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.override != "" {
		return s.override, true
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	tok := strings.TrimSpace(string(data))
	return tok, tok != ""
}

func (s *FileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("session.SetToken: create dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("session.SetToken: %w", err)
	}
	s.override = ""
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}

// MemoryStore keeps the token in memory. Used by tests and one-shot commands.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemoryStore returns a store seeded with token; an empty token means none.
func NewMemoryStore(token string) *MemoryStore {
	s := &MemoryStore{}
	s.SetToken(token) //nolint:errcheck // never fails
	return s
}

func (s *MemoryStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.set
}

// SetToken stores token. A blank token reads back as absent, the same as
// FileStore.
func (s *MemoryStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	s.set = s.token != ""
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}
