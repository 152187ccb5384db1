package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore persists the bearer token in a single file. An empty path keeps
// the token in memory only.
type TokenStore struct {
	mu    sync.RWMutex
	path  string
	token string
}

// LoadTokenStore reads the persisted token, if any. A missing file is not an
// error.
func LoadTokenStore(path string) (*TokenStore, error) {
	s := &TokenStore{path: strings.TrimSpace(path)}
	if s.path == "" {
		return s, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read token: %w", err)
	}
	s.token = strings.TrimSpace(string(data))
	return s, nil
}

// Token returns the current token or "".
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Present reports whether a token is held.
func (s *TokenStore) Present() bool {
	return s.Token() != ""
}

// Set stores token in memory and on disk.
func (s *TokenStore) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		_, err := s.Clear()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Clear drops the token and removes the file. It reports whether a token was
// held before the call.
func (s *TokenStore) Clear() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.token != ""
	return had, s.clearLocked()
}

// ClearIf drops the token only while it still equals token. It reports
// whether anything was cleared.
func (s *TokenStore) ClearIf(token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || s.token != strings.TrimSpace(token) {
		return false, nil
	}
	return true, s.clearLocked()
}

func (s *TokenStore) clearLocked() error {
	s.token = ""
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
