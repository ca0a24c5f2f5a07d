package pipeline

import (
	"testing"

	"github.com/esmd-dev/esmd/internal/core/domain"
)

func TestPendingRegistry_AcquireIsSingleFlight(t *testing.T) {
	var clock int64
	tick := func() int64 { clock++; return clock }

	r := newPendingRegistry()

	first, created := r.acquire("default:/src/main.js", tick)
	if !created {
		t.Fatal("expected first acquire to create the entry")
	}
	if first.startedAt != 1 {
		t.Errorf("expected startedAt 1, got %d", first.startedAt)
	}

	second, created := r.acquire("default:/src/main.js", tick)
	if created || second != first {
		t.Error("expected second acquire to return the pending entry")
	}

	// A different cache key gets its own entry.
	_, created = r.acquire("ssr:/src/main.js", tick)
	if !created {
		t.Error("expected distinct key to create a new entry")
	}
	if r.size() != 2 {
		t.Errorf("expected 2 pending entries, got %d", r.size())
	}
}

func TestPendingRequest_AbortIsIdempotent(t *testing.T) {
	r := newPendingRegistry()
	tick := func() int64 { return 1 }

	req, _ := r.acquire("default:/src/main.js", tick)
	req.Abort()
	req.Abort()
	if r.size() != 0 {
		t.Errorf("expected empty registry, got %d entries", r.size())
	}

	// Abort of a superseded entry must not remove its replacement.
	replacement, created := r.acquire("default:/src/main.js", tick)
	if !created {
		t.Fatal("expected a fresh entry after abort")
	}
	req.Abort()
	if r.size() != 1 {
		t.Error("expected replacement entry to survive the stale abort")
	}
	replacement.Abort()
	if r.size() != 0 {
		t.Error("expected registry to drain")
	}
}

func TestPendingRequest_SettleUnblocksWaiters(t *testing.T) {
	r := newPendingRegistry()
	req, _ := r.acquire("default:/src/main.js", func() int64 { return 1 })

	result := &domain.TransformResult{Code: "done"}
	req.settle(result, nil)

	select {
	case <-req.done:
	default:
		t.Fatal("expected done channel to be closed after settle")
	}
	if req.result != result || req.err != nil {
		t.Error("expected settled values to be visible")
	}
}
