// Package graph implements the in-memory module graph adapter.
package graph

import (
	"sync"
	"sync/atomic"

	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

var _ ports.ModuleGraph = (*Graph)(nil)

// Graph stores module records keyed by url, resolved id, and backing file.
// Browser and server-side requests share one record per url; the record
// itself carries one result slot per environment. Modules are created lazily
// and never deleted, only invalidated.
type Graph struct {
	clock atomic.Int64

	mu            sync.RWMutex
	urlToModule   map[string]*domain.Module
	idToModule    map[string]*domain.Module
	fileToModules map[string]map[*domain.Module]struct{}
}

// New creates an empty module graph.
func New() *Graph {
	return &Graph{
		urlToModule:   make(map[string]*domain.Module),
		idToModule:    make(map[string]*domain.Module),
		fileToModules: make(map[string]map[*domain.Module]struct{}),
	}
}

// Tick advances the logical invalidation clock.
func (g *Graph) Tick() int64 {
	return g.clock.Add(1)
}

// ModuleByURL returns the module for a normalized url, or nil.
func (g *Graph) ModuleByURL(url string, _ bool) *domain.Module {
	url = domain.RemoveTimestampQuery(url)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.urlToModule[url]
}

// ModuleByID returns the module for a resolved id, or nil.
func (g *Graph) ModuleByID(id string) *domain.Module {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.idToModule[id]
}

// EnsureEntryFromURL returns the module for url, creating it when absent.
func (g *Graph) EnsureEntryFromURL(url string, _ bool) (*domain.Module, error) {
	url = domain.RemoveTimestampQuery(url)
	g.mu.Lock()
	defer g.mu.Unlock()
	if module, ok := g.urlToModule[url]; ok {
		return module, nil
	}
	module := domain.NewModule(url)
	g.urlToModule[url] = module
	return module, nil
}

// BindFile indexes the module under its backing file and resolved id so
// file-watch events and importer diagnostics can find it.
func (g *Graph) BindFile(m *domain.Module, file string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id := m.ResolvedID(); id != "" {
		g.idToModule[id] = m
	}
	modules, ok := g.fileToModules[file]
	if !ok {
		modules = make(map[*domain.Module]struct{})
		g.fileToModules[file] = modules
	}
	modules[m] = struct{}{}
}

// InvalidateFile marks every module backed by file as stale under a fresh
// clock stamp.
func (g *Graph) InvalidateFile(file string) {
	stamp := g.Tick()
	g.mu.RLock()
	modules := g.fileToModules[file]
	g.mu.RUnlock()
	for module := range modules {
		module.Invalidate(stamp)
	}
}
