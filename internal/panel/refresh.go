package panel

import "sync"

// LineOptions are the selectable log tail lengths.
var LineOptions = []int{100, 500, 1000, 5000}

// DefaultLines is the tail length used when a logs panel opens.
const DefaultLines = 100

// NextLineCount returns the option after n, wrapping around. Unknown values
// go back to the first option.
func NextLineCount(n int) int {
	for i, v := range LineOptions {
		if v == n {
			return LineOptions[(i+1)%len(LineOptions)]
		}
	}
	return LineOptions[0]
}

// Request identifies one fetch issued for a panel buffer.
type Request struct {
	Seq         uint64
	ContainerID string
	Lines       int
}

// RequestTracker decides whether a completed fetch may be applied. Only the
// most recently issued request is accepted, and nothing is accepted after
// Close.
type RequestTracker struct {
	mu     sync.Mutex
	latest uint64
	closed bool
}

// Issue records a new request, superseding any in flight.
func (t *RequestTracker) Issue(containerID string, lines int) Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
	return Request{Seq: t.latest, ContainerID: containerID, Lines: lines}
}

// Accept reports whether the response for req should be applied.
func (t *RequestTracker) Accept(req Request) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed && req.Seq != 0 && req.Seq == t.latest
}

// Close marks the owning panel as torn down.
func (t *RequestTracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

// Alive reports whether Close has not been called.
func (t *RequestTracker) Alive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}
