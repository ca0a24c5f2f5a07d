package ports

import (
	"context"

	"github.com/esmd-dev/esmd/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=plugins.go -destination=mocks/mock_plugins.go -package=mocks

// ResolveOptions carries flags for one resolve hook invocation.
type ResolveOptions struct {
	// SSR targets the server-side environment.
	SSR bool
	// Scan marks resolution issued by the dependency scanner, which some
	// plugins treat more permissively.
	Scan bool
}

// LoadOptions carries flags for one load hook invocation.
type LoadOptions struct {
	SSR bool
}

// TransformOptions carries the input map and flags for one transform hook
// invocation.
type TransformOptions struct {
	InMap *domain.SourceMap
	SSR   bool
}

// ResolvedID is the outcome of the resolve hook chain.
type ResolvedID struct {
	ID string
	// External marks specifiers the browser loads directly.
	External bool
}

// PluginContainer runs the plugin hook chains. Hook errors propagate
// unmodified; a nil result means every hook declined.
type PluginContainer interface {
	// ResolveID maps a url or specifier to a module id.
	ResolveID(ctx context.Context, url, importer string, opts ResolveOptions) (*ResolvedID, error)

	// Load produces code for a resolved id.
	Load(ctx context.Context, id string, opts LoadOptions) (*domain.LoadResult, error)

	// Transform rewrites loaded code. A nil result, or a result with empty
	// code, leaves the input unchanged.
	Transform(ctx context.Context, code, id string, opts TransformOptions) (*domain.HookTransformResult, error)
}
