package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nachokhan/peke-panel/internal/api"
	"github.com/nachokhan/peke-panel/internal/logging"
	"github.com/nachokhan/peke-panel/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// StatusSource fetches the service list.
type StatusSource interface {
	FetchStatus(ctx context.Context) ([]api.Service, error)
}

// TokenGate reports whether a credential is held.
type TokenGate interface {
	LoggedIn() bool
}

// Poller refreshes the dashboard store at a fixed cadence. Polling is
// skipped while any panel holds a suspension or while logged out.
type Poller struct {
	source   StatusSource
	store    *state.Store
	gate     TokenGate
	interval time.Duration

	mu        sync.Mutex
	suspended int
	onUpdate  func()

	kick chan struct{}
}

// NewPoller builds a poller. gate may be nil to always poll.
func NewPoller(source StatusSource, store *state.Store, gate TokenGate, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		source:   source,
		store:    store,
		gate:     gate,
		interval: interval,
		kick:     make(chan struct{}, 1),
	}
}

// OnUpdate registers fn to run after each completed poll.
func (p *Poller) OnUpdate(fn func()) {
	p.mu.Lock()
	p.onUpdate = fn
	p.mu.Unlock()
}

// Suspend pauses polling until a matching Resume.
func (p *Poller) Suspend() {
	p.mu.Lock()
	p.suspended++
	n := p.suspended
	p.mu.Unlock()
	logging.Debug("status polling suspended", "holders", n)
}

// Resume releases one suspension. Releasing the last one triggers an
// immediate refresh.
func (p *Poller) Resume() {
	p.mu.Lock()
	if p.suspended > 0 {
		p.suspended--
	}
	n := p.suspended
	p.mu.Unlock()
	logging.Debug("status polling resumed", "holders", n)
	if n == 0 {
		p.Refresh()
	}
}

// Suspended reports whether any suspension is held.
func (p *Poller) Suspended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suspended > 0
}

// Refresh wakes the loop for an immediate poll.
func (p *Poller) Refresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Start launches Run in a goroutine. It returns immediately.
func (p *Poller) Start(ctx context.Context) {
	go p.Run(ctx)
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	for {
		if p.active() {
			p.refresh(ctx)
		}

		wait := calculateBackoff(p.store.Snapshot().ConsecutiveFailures, p.interval)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.kick:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (p *Poller) active() bool {
	if p.Suspended() {
		return false
	}
	return p.gate == nil || p.gate.LoggedIn()
}

func (p *Poller) refresh(ctx context.Context) {
	services, err := p.source.FetchStatus(ctx)
	switch {
	case err == nil:
		p.store.Update(services, nil)
	case errors.Is(err, api.ErrUnauthorized):
		// session listeners own the reset
		return
	case ctx.Err() != nil:
		return
	default:
		p.store.Update(nil, err)
		logging.Warn("status poll failed", "error", err)
	}

	p.mu.Lock()
	fn := p.onUpdate
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
