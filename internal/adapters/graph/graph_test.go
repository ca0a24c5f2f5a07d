package graph_test

import (
	"testing"

	"github.com/esmd-dev/esmd/internal/adapters/graph"
	"github.com/esmd-dev/esmd/internal/core/domain"
)

func TestGraph_Tick_Monotonic(t *testing.T) {
	g := graph.New()
	a := g.Tick()
	b := g.Tick()
	if b <= a {
		t.Errorf("expected ticks to increase, got %d then %d", a, b)
	}
}

func TestGraph_EnsureEntryFromURL_Idempotent(t *testing.T) {
	g := graph.New()

	first, err := g.EnsureEntryFromURL("/src/main.js", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := g.EnsureEntryFromURL("/src/main.js?t=42", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected the timestamped url to map to the same module")
	}
}

func TestGraph_ModuleByURL_StripsTimestamp(t *testing.T) {
	g := graph.New()
	if _, err := g.EnsureEntryFromURL("/src/main.js", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.ModuleByURL("/src/main.js?t=7", false) == nil {
		t.Error("expected lookup with cache-busting query to hit")
	}
	if g.ModuleByURL("/src/other.js", false) != nil {
		t.Error("expected miss for unknown url")
	}
}

func TestGraph_InvalidateFile(t *testing.T) {
	g := graph.New()
	module, err := g.EnsureEntryFromURL("/src/main.js", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !module.EnsureBinding("/proj/src/main.js", "/proj/src/main.js") {
		t.Fatal("expected first binding to take")
	}
	g.BindFile(module, module.BackingFile())

	stamp := module.LastInvalidated()
	module.SetResult(&domain.TransformResult{Code: "x"}, false, g.Tick())

	g.InvalidateFile("/proj/src/main.js")

	if module.Result(false) != nil {
		t.Error("expected cached result to be dropped")
	}
	if module.LastInvalidated() <= stamp {
		t.Error("expected invalidation stamp to advance")
	}
	if g.ModuleByID("/proj/src/main.js") != module {
		t.Error("expected id index to find the module")
	}
}

func TestGraph_InvalidateFile_UnknownFile(t *testing.T) {
	g := graph.New()
	// Must not panic and must still advance the clock.
	before := g.Tick()
	g.InvalidateFile("/proj/src/ghost.js")
	if g.Tick() <= before+1 {
		t.Error("expected invalidation to consume a clock tick")
	}
}
