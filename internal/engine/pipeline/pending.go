package pipeline

import (
	"sync"

	"github.com/esmd-dev/esmd/internal/core/domain"
)

// pendingRequest is one in-flight transform computation. Waiters block on
// done; settle closes it exactly once. Abort only removes the registry
// bookkeeping so a fresh computation can start; it never interrupts the
// in-flight hook work, whose late result is discarded by the module's
// finish-time cache-write guard.
type pendingRequest struct {
	// startedAt is the logical clock value captured when the request began.
	startedAt int64

	done   chan struct{}
	result *domain.TransformResult
	err    error

	abortOnce sync.Once
	abort     func()
}

func (p *pendingRequest) settle(result *domain.TransformResult, err error) {
	p.result = result
	p.err = err
	close(p.done)
}

// Abort deregisters the request. Idempotent: registry entries are removed
// exactly once whether the work settles first or a staleness check wins.
func (p *pendingRequest) Abort() {
	p.abortOnce.Do(p.abort)
}

// pendingRegistry holds at most one pending request per cache key.
type pendingRegistry struct {
	mu      sync.Mutex
	entries map[string]*pendingRequest
}

func newPendingRegistry() *pendingRegistry {
	return &pendingRegistry{entries: make(map[string]*pendingRequest)}
}

// acquire returns the pending request for key, or registers a new one when
// none is in flight. The existence check and registration happen under one
// lock so two concurrent callers can never both create an entry. created is
// true when the caller owns the new request and must settle and Abort it.
func (r *pendingRegistry) acquire(key string, tick func() int64) (req *pendingRequest, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[key]; ok {
		return existing, false
	}
	req = &pendingRequest{
		startedAt: tick(),
		done:      make(chan struct{}),
	}
	req.abort = func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.entries[key] == req {
			delete(r.entries, key)
		}
	}
	r.entries[key] = req
	return req, true
}

// size reports the number of in-flight requests, for tests and debug logs.
func (r *pendingRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
