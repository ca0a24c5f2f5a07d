package ports

import "github.com/esmd-dev/esmd/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=graph.go -destination=mocks/mock_graph.go -package=mocks

// ModuleGraph stores the server's module records. Implementations own the
// logical invalidation clock: Stamp reads it, file invalidations tick it.
type ModuleGraph interface {
	// ModuleByURL returns the module for a normalized url, or nil.
	ModuleByURL(url string, ssr bool) *domain.Module

	// ModuleByID returns the module for a resolved id, or nil. Used for
	// importer diagnostics on unresolved specifiers.
	ModuleByID(id string) *domain.Module

	// EnsureEntryFromURL returns the module for url, creating it when absent.
	EnsureEntryFromURL(url string, ssr bool) (*domain.Module, error)

	// Tick advances the logical clock and returns the new value. Transform
	// requests capture a tick at start so a later invalidation always
	// carries a strictly greater stamp.
	Tick() int64

	// InvalidateFile marks every module backed by file as stale and ticks
	// the clock.
	InvalidateFile(file string)

	// BindFile associates a module with its backing file for later
	// file-keyed invalidation.
	BindFile(m *domain.Module, file string)
}
