package auth

import "github.com/nachokhan/peke-panel/internal/logging"

// Session ties the persisted token to the invalidation watcher. The API
// client holds a Session and calls Invalidate on credential rejection.
type Session struct {
	tokens  *TokenStore
	watcher *Watcher
}

// NewSession builds a session. A nil watcher is replaced with an empty one.
func NewSession(tokens *TokenStore, watcher *Watcher) *Session {
	if tokens == nil {
		tokens = &TokenStore{}
	}
	if watcher == nil {
		watcher = NewWatcher()
	}
	return &Session{tokens: tokens, watcher: watcher}
}

// Token returns the bearer token, or "" when logged out.
func (s *Session) Token() string { return s.tokens.Token() }

// LoggedIn reports whether a token is held.
func (s *Session) LoggedIn() bool { return s.tokens.Present() }

// Watcher exposes the listener registry.
func (s *Session) Watcher() *Watcher { return s.watcher }

// Login stores a freshly issued token.
func (s *Session) Login(token string) error {
	return s.tokens.Set(token)
}

// Logout clears the token without notifying listeners. It is used for
// user-initiated logout where the caller resets its own state.
func (s *Session) Logout() error {
	_, err := s.tokens.Clear()
	return err
}

// Invalidate clears the persisted token and notifies listeners, provided the
// session still holds token. A rejection of a token replaced by a newer login
// is ignored, and concurrent rejections of the same token notify once. It
// reports whether listeners were fired.
func (s *Session) Invalidate(token string) bool {
	had, err := s.tokens.ClearIf(token)
	if err != nil {
		logging.Warn("clear token failed", "error", err)
	}
	if !had {
		return false
	}
	logging.Info("session invalidated")
	s.watcher.Notify()
	return true
}
