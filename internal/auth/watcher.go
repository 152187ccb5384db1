package auth

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/nachokhan/peke-panel/internal/logging"
)

// Listener is invoked when the session credential has been rejected.
type Listener func()

type subscription struct {
	id uint64
	fn Listener
}

// Watcher is a synchronous invalidation broadcaster. Listeners run in
// subscription order; a panicking listener is recovered and logged so the
// remaining listeners still run.
type Watcher struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
}

// NewWatcher creates an empty watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Subscribe registers fn and returns a func that removes it again.
func (w *Watcher) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	w.mu.Lock()
	w.nextID++
	id := w.nextID
	w.subs = append(w.subs, subscription{id: id, fn: fn})
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { w.remove(id) })
	}
}

func (w *Watcher) remove(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, sub := range w.subs {
		if sub.id == id {
			w.subs = append(w.subs[:i:i], w.subs[i+1:]...)
			return
		}
	}
}

// Len reports the number of registered listeners.
func (w *Watcher) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.subs)
}

// Notify calls every registered listener once and returns the number of
// listeners that panicked.
func (w *Watcher) Notify() int {
	w.mu.RLock()
	subs := make([]subscription, len(w.subs))
	copy(subs, w.subs)
	w.mu.RUnlock()

	failed := 0
	for _, sub := range subs {
		if err := safeCall(sub.fn); err != nil {
			failed++
			logging.Error("auth listener panicked", "id", sub.id, "error", err)
		}
	}
	return failed
}

func safeCall(fn Listener) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
	return nil
}
