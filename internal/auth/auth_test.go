package auth

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestWatcher_NotifyCallsEachListenerOnce(t *testing.T) {
	w := NewWatcher()
	var calls []string
	w.Subscribe(func() { calls = append(calls, "a") })
	w.Subscribe(func() { calls = append(calls, "b") })

	if failed := w.Notify(); failed != 0 {
		t.Fatalf("Notify failed = %d, want 0", failed)
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("calls = %v, want [a b]", calls)
	}
}

func TestWatcher_PanickingListenerDoesNotStopOthers(t *testing.T) {
	w := NewWatcher()
	ran := false
	w.Subscribe(func() { panic("boom") })
	w.Subscribe(func() { ran = true })

	if failed := w.Notify(); failed != 1 {
		t.Fatalf("Notify failed = %d, want 1", failed)
	}
	if !ran {
		t.Fatalf("second listener did not run after first panicked")
	}
}

func TestWatcher_Unsubscribe(t *testing.T) {
	w := NewWatcher()
	count := 0
	unsub := w.Subscribe(func() { count++ })
	w.Subscribe(func() {})
	unsub()
	unsub()

	if w.Len() != 1 {
		t.Fatalf("Len = %d, want 1", w.Len())
	}
	w.Notify()
	if count != 0 {
		t.Fatalf("unsubscribed listener ran %d times", count)
	}
}

func TestTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "token")
	store, err := LoadTokenStore(path)
	if err != nil {
		t.Fatalf("LoadTokenStore: %v", err)
	}
	if store.Present() {
		t.Fatalf("new store reports a token")
	}
	if err := store.Set("  abc  "); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reloaded, err := LoadTokenStore(path)
	if err != nil {
		t.Fatalf("LoadTokenStore: %v", err)
	}
	if reloaded.Token() != "abc" {
		t.Fatalf("Token = %q, want abc", reloaded.Token())
	}
}

func TestSession_InvalidateRemovesTokenAndNotifiesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("secret\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	store, err := LoadTokenStore(path)
	if err != nil {
		t.Fatalf("LoadTokenStore: %v", err)
	}
	session := NewSession(store, NewWatcher())

	var mu sync.Mutex
	counts := map[string]int{}
	for _, name := range []string{"ui", "poller"} {
		name := name
		session.Watcher().Subscribe(func() {
			mu.Lock()
			counts[name]++
			mu.Unlock()
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.Invalidate("secret")
		}()
	}
	wg.Wait()

	if session.LoggedIn() {
		t.Fatalf("session still logged in after Invalidate")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("token file still present: err=%v", err)
	}
	if counts["ui"] != 1 || counts["poller"] != 1 {
		t.Fatalf("listener counts = %v, want each exactly 1", counts)
	}
	if session.Invalidate("secret") {
		t.Fatalf("Invalidate while logged out fired listeners")
	}
}

func TestSession_InvalidateIgnoresReplacedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store, err := LoadTokenStore(path)
	if err != nil {
		t.Fatalf("LoadTokenStore: %v", err)
	}
	session := NewSession(store, nil)
	fired := 0
	session.Watcher().Subscribe(func() { fired++ })

	if err := session.Login("old"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := session.Login("new"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	tests := []struct {
		token string
		want  bool
	}{
		{"", false},
		{"old", false},
		{"new", true},
		{"new", false},
	}
	for i, tt := range tests {
		if got := session.Invalidate(tt.token); got != tt.want {
			t.Fatalf("step %d: Invalidate(%q) = %v, want %v", i, tt.token, got, tt.want)
		}
		if i < 2 && session.Token() != "new" {
			t.Fatalf("step %d: token = %q, want new", i, session.Token())
		}
	}
	if fired != 1 {
		t.Fatalf("listeners fired %d times, want 1", fired)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("token file still present: err=%v", err)
	}
}

func TestSession_LogoutDoesNotNotify(t *testing.T) {
	session := NewSession(&TokenStore{}, nil)
	if err := session.Login("tok"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	fired := false
	session.Watcher().Subscribe(func() { fired = true })
	if err := session.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if fired {
		t.Fatalf("Logout notified listeners")
	}
	if session.Token() != "" {
		t.Fatalf("Token = %q after Logout", session.Token())
	}
}
