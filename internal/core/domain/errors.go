package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

// Error codes attached to sentinel errors under the "code" metadata key.
// The transform middleware switches on these to pick an HTTP status.
const (
	CodeLoadNotFound       = "ERR_LOAD_NOT_FOUND"
	CodeLoadPublicURL      = "ERR_LOAD_PUBLIC_URL"
	CodeOptimizeProcessing = "ERR_OPTIMIZE_DEPS_PROCESSING"
	CodeOptimizeOutdated   = "ERR_OUTDATED_OPTIMIZED_DEP"
)

var (
	// ErrLoadNotFound is returned when no plugin and no filesystem fallback
	// produced code for a requested module.
	ErrLoadNotFound = zerr.With(zerr.New("failed to load url"), "code", CodeLoadNotFound)

	// ErrLoadPublicURL is returned when a module imports a file that lives
	// under the public assets directory. Public assets are served verbatim
	// and must be referenced from markup, not imported.
	ErrLoadPublicURL = zerr.With(zerr.New("cannot import public asset"), "code", CodeLoadPublicURL)

	// ErrOptimizeProcessing is returned while dependency pre-bundling for the
	// requested id is still in progress.
	ErrOptimizeProcessing = zerr.With(zerr.New("optimized deps are still processing"), "code", CodeOptimizeProcessing)

	// ErrOptimizeOutdated is returned when a pre-bundled dependency was
	// invalidated while a request for it was in flight. Expected during
	// re-optimization; clients retry.
	ErrOptimizeOutdated = zerr.With(zerr.New("outdated optimized dependency"), "code", CodeOptimizeOutdated)
)

// ErrorCode extracts the "code" metadata from err, walking the wrap chain.
// Returns the empty string when err carries no code.
func ErrorCode(err error) string {
	for err != nil {
		var zErr *zerr.Error
		if errors.As(err, &zErr) {
			if code, ok := zErr.Metadata()["code"].(string); ok {
				return code
			}
			err = errors.Unwrap(zErr)
			continue
		}
		err = errors.Unwrap(err)
	}
	return ""
}
