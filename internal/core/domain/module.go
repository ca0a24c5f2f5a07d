// Package domain contains the core domain models for the esmd dev server:
// modules, transform results, source maps, scan state, and the invalidation
// clock that gates every cached result.
package domain

import "sync"

// Module is the server's record of one resolvable source url. It holds the
// cached transform outputs (one slot per execution environment) and the
// logical timestamp of its last invalidation.
//
// A cached result is valid only if the request that produced it started and
// finished while no invalidation occurred; callers enforce this with the
// finish-time check in SetResult.
type Module struct {
	mu sync.Mutex

	// URL is the normalized request url identifying this module.
	URL string

	id   string
	file string

	result    *TransformResult
	ssrResult *TransformResult

	lastInvalidated int64

	importers map[string]struct{}
}

// NewModule creates a module for the given normalized url.
func NewModule(url string) *Module {
	return &Module{
		URL:       url,
		importers: make(map[string]struct{}),
	}
}

// EnsureBinding records the resolved id and backing file the first time a
// load reaches this module. Requests for different execution environments
// share one module, so the first caller wins and later calls are no-ops.
// Returns true when this call bound the file, so the caller knows to index
// and watch it.
func (m *Module) EnsureBinding(id, file string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id == "" {
		m.id = id
	}
	if m.file == "" && file != "" {
		m.file = file
		return true
	}
	return false
}

// ResolvedID returns the id produced by the resolve hook chain, or the empty
// string before the first load.
func (m *Module) ResolvedID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id
}

// BackingFile returns the absolute filesystem path backing this module, or
// the empty string when none is bound.
func (m *Module) BackingFile() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.file
}

// Result returns the cached transform result for the given environment, or
// nil when none is cached.
func (m *Module) Result(ssr bool) *TransformResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ssr {
		return m.ssrResult
	}
	return m.result
}

// SetResult stores a freshly computed result, but only if the module has not
// been invalidated since the producing request started. A stale result is
// discarded so the next request recomputes it.
func (m *Module) SetResult(result *TransformResult, ssr bool, startedAt int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastInvalidated > startedAt {
		return false
	}
	if ssr {
		m.ssrResult = result
	} else {
		m.result = result
	}
	return true
}

// Invalidate drops both cached results and records the invalidation stamp.
func (m *Module) Invalidate(stamp int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = nil
	m.ssrResult = nil
	m.lastInvalidated = stamp
}

// LastInvalidated returns the logical timestamp of the last invalidation.
func (m *Module) LastInvalidated() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInvalidated
}

// AddImporter records a back-reference to a module that imports this one.
// The relation carries no ownership; it exists for diagnostics.
func (m *Module) AddImporter(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.importers[url] = struct{}{}
}

// Importers returns the urls of known importing modules.
func (m *Module) Importers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.importers))
	for url := range m.importers {
		out = append(out, url)
	}
	return out
}

// FirstImporter returns one known importer url, or the empty string.
func (m *Module) FirstImporter() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for url := range m.importers {
		return url
	}
	return ""
}
