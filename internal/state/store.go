package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/nachokhan/peke-panel/internal/api"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Services            []api.Service
	HasStatus           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Find returns the service with id.
func (s Snapshot) Find(id string) (api.Service, bool) {
	for _, svc := range s.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return api.Service{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored services. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(services []api.Service, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Services = cloneServices(services)
	s.snapshot.HasStatus = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Reset forgets everything, as after a logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Services = cloneServices(s.snapshot.Services)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneServices(items []api.Service) []api.Service {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Service, len(items))
	copy(dup, items)
	return dup
}
