// Package optimizer implements the dependency pre-bundling coordinator. The
// bundling step itself is delegated to an external tool; this adapter owns
// the cache directory bookkeeping, the processing/outdated error surfaces,
// and the decision delays requested by the transform pipeline.
package optimizer

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.trai.ch/zerr"

	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

var _ ports.DepsOptimizer = (*Coordinator)(nil)

// Coordinator tracks discovered dependencies and serves pre-bundled
// artifacts out of the dependency cache directory.
type Coordinator struct {
	cfg *domain.Config
	log ports.Logger

	mu         sync.Mutex
	deps       map[string]string
	processing bool

	delayed sync.WaitGroup
}

// New creates a Coordinator. It starts in the processing state until the
// first scanner run registers its discoveries.
func New(cfg *domain.Config, log ports.Logger) *Coordinator {
	return &Coordinator{
		cfg:        cfg,
		log:        log,
		deps:       make(map[string]string),
		processing: true,
	}
}

// Register records scanner-discovered dependencies and ends the processing
// window.
func (c *Coordinator) Register(deps map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for specifier, resolved := range deps {
		c.deps[specifier] = resolved
	}
	c.processing = false
	c.log.Info("optimizable dependencies registered", "count", len(deps))
}

// DelayUntil defers the optimization decision for id until the given wait
// function returns. Never blocks the caller.
func (c *Coordinator) DelayUntil(id string, wait func()) {
	if !domain.IsDepArtifact(id) {
		return
	}
	c.delayed.Add(1)
	go func() {
		defer c.delayed.Done()
		wait()
	}()
}

// IsOptimizedDepURL reports whether the url points into the dependency cache
// directory.
func (c *Coordinator) IsOptimizedDepURL(url string) bool {
	return strings.Contains(domain.CleanURL(url), domain.DepCacheDirName)
}

// IsOptimizedDepFile reports whether the id is a pre-bundled artifact.
func (c *Coordinator) IsOptimizedDepFile(id string) bool {
	return strings.Contains(domain.CleanURL(id), domain.DepCacheDirName)
}

// Name implements the plugin interface so the coordinator can sit in the
// load chain for pre-bundled artifacts.
func (c *Coordinator) Name() string { return "esmd:optimized-deps" }

// Load serves a pre-bundled artifact. While pre-bundling is still running
// the request fails with the processing error; a missing artifact after
// processing means the bundle was invalidated mid-flight.
func (c *Coordinator) Load(_ context.Context, id string, _ ports.LoadOptions) (*domain.LoadResult, error) {
	if !c.IsOptimizedDepFile(id) {
		return nil, nil
	}

	c.mu.Lock()
	processing := c.processing
	c.mu.Unlock()
	if processing {
		return nil, zerr.With(domain.ErrOptimizeProcessing, "id", id)
	}

	data, err := os.ReadFile(domain.CleanURL(id))
	if err != nil {
		return nil, zerr.With(domain.ErrOptimizeOutdated, "id", id)
	}
	return &domain.LoadResult{Code: string(data)}, nil
}

// WaitIdle blocks until all delayed decisions settled. Tests use it.
func (c *Coordinator) WaitIdle() {
	c.delayed.Wait()
}
