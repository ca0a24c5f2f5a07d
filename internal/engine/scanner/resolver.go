package scanner

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// scanResolver resolves import specifiers during one scanner run and
// classifies bare specifiers as optimizable or missing. Resolution is
// memoized by specifier + importer directory and single-flight per key.
type scanResolver struct {
	cfg     *domain.Config
	plugins ports.PluginContainer
	state   *domain.ScanState

	sf    singleflight.Group
	mu    sync.Mutex
	cache map[string]string
}

func newScanResolver(cfg *domain.Config, plugins ports.PluginContainer, state *domain.ScanState) *scanResolver {
	return &scanResolver{
		cfg:     cfg,
		plugins: plugins,
		state:   state,
		cache:   make(map[string]string),
	}
}

// resolve returns the resolved absolute path for specifier imported from
// importer, or the empty string when resolution failed or the specifier is
// not followable.
func (r *scanResolver) resolve(ctx context.Context, specifier, importer string) string {
	key := specifier + "\x00" + filepath.Dir(importer)

	resolved, _, _ := r.sf.Do(key, func() (any, error) {
		r.mu.Lock()
		cached, ok := r.cache[key]
		r.mu.Unlock()
		if ok {
			return cached, nil
		}

		result := r.doResolve(ctx, specifier, importer)

		r.mu.Lock()
		r.cache[key] = result
		r.mu.Unlock()
		return result, nil
	})
	return resolved.(string)
}

func (r *scanResolver) doResolve(ctx context.Context, specifier, importer string) string {
	if r.excluded(specifier) {
		return ""
	}

	resolved, err := r.plugins.ResolveID(ctx, specifier, importer, ports.ResolveOptions{Scan: true})
	if err != nil || resolved == nil || resolved.ID == "" {
		if domain.IsBareSpecifier(specifier) {
			r.state.AddMissing(specifier, importer)
		}
		return ""
	}

	id := resolved.ID
	if domain.IsBareSpecifier(specifier) {
		r.classify(specifier, id)
	}
	return domain.CleanURL(id)
}

// classify applies the optimizable-dependency rule: a bare specifier whose
// resolution went somewhere else, is not a virtual module, and resolves into
// the dependency install area (or is force-included) while being an
// optimizable artifact.
func (r *scanResolver) classify(specifier, id string) {
	if id == specifier || strings.HasPrefix(id, "\x00") || strings.HasPrefix(id, "virtual:") {
		return
	}
	if !domain.IsDepArtifact(id) && !r.included(specifier) {
		return
	}
	if !domain.IsOptimizable(id) {
		return
	}
	r.state.AddOptimizable(specifier, domain.CleanURL(id))
}

func (r *scanResolver) excluded(specifier string) bool {
	if specifier == domain.ClientModulePath || specifier == domain.EnvModulePath {
		return true
	}
	for _, excluded := range r.cfg.OptimizeExclude {
		if specifier == excluded {
			return true
		}
	}
	return false
}

func (r *scanResolver) included(specifier string) bool {
	for _, included := range r.cfg.OptimizeInclude {
		if specifier == included {
			return true
		}
	}
	return false
}
