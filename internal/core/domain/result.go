package domain

// TransformMode selects which execution environment a transform request
// targets. The mode is part of the pending-request cache key, so the same
// url can be in flight for the browser and the server simultaneously.
type TransformMode uint8

const (
	// ModeDefault is a plain browser-bound transform request.
	ModeDefault TransformMode = iota
	// ModeSSR transforms for server-side execution.
	ModeSSR
	// ModeHTMLFallback is a speculative request issued for urls that may
	// resolve to markup; the load stage aborts instead of erroring when the
	// id turns out not to be markup.
	ModeHTMLFallback
)

// CacheKeyPrefix returns the prefix that namespaces the pending-request
// registry by mode.
func (m TransformMode) CacheKeyPrefix() string {
	switch m {
	case ModeSSR:
		return "ssr:"
	case ModeHTMLFallback:
		return "html-fallback:"
	default:
		return "default:"
	}
}

// SSR reports whether the mode executes server-side.
func (m TransformMode) SSR() bool { return m == ModeSSR }

// TransformResult is the immutable output of one resolve/load/transform
// cycle. It is stored on the module and served verbatim until invalidated.
type TransformResult struct {
	Code string
	Map  *SourceMap
	// Etag is a weak content fingerprint over Code, used for conditional GET.
	Etag string
	// Deps are the import specifiers discovered by the transform chain.
	Deps []string
	// DynamicDeps are dynamically imported specifiers.
	DynamicDeps []string
}

// LoadResult normalizes the duck-typed output of a load hook: plugins may
// return bare code or code plus a map.
type LoadResult struct {
	Code string
	Map  *SourceMap
}

// HookTransformResult normalizes the output of a transform hook. A nil
// result, or a result with empty code, means the hook declined.
type HookTransformResult struct {
	Code string
	Map  *SourceMap
}
