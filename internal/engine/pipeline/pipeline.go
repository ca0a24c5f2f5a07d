// Package pipeline implements the on-demand transform pipeline: per-url
// resolve/load/transform orchestration with single-flight request collapsing
// and invalidation-aware caching.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// Pipeline orchestrates one resolve/load/transform cycle per requested url
// and memoizes the result on the module graph.
type Pipeline struct {
	cfg       *domain.Config
	graph     ports.ModuleGraph
	plugins   ports.PluginContainer
	optimizer ports.DepsOptimizer
	watcher   ports.Watcher
	log       ports.Logger
	telemetry ports.Telemetry

	pending *pendingRegistry

	// onLoad fires after the load stage resolves a backing file; the
	// prefetch warmer hangs off it. Never awaited.
	onLoad func(file string)
}

// New creates a Pipeline. watcher may be nil when file watching is disabled.
func New(
	cfg *domain.Config,
	graph ports.ModuleGraph,
	plugins ports.PluginContainer,
	optimizer ports.DepsOptimizer,
	watcher ports.Watcher,
	log ports.Logger,
	telemetry ports.Telemetry,
) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		graph:     graph,
		plugins:   plugins,
		optimizer: optimizer,
		watcher:   watcher,
		log:       log,
		telemetry: telemetry,
		pending:   newPendingRegistry(),
	}
}

// SetOnLoad installs the load-event hook. Must be called before serving.
func (p *Pipeline) SetOnLoad(fn func(file string)) {
	p.onLoad = fn
}

// TransformRequest resolves, loads, and transforms url for the given mode.
// Concurrent requests for the same cache key collapse onto one in-flight
// computation; a pending computation known to predate the module's last
// invalidation is deregistered and re-issued.
func (p *Pipeline) TransformRequest(ctx context.Context, url string, mode domain.TransformMode) (*domain.TransformResult, error) {
	key := mode.CacheKeyPrefix() + url

	for {
		req, created := p.pending.acquire(key, p.graph.Tick)
		if !created {
			module := p.graph.ModuleByURL(domain.RemoveTimestampQuery(url), mode.SSR())
			if module == nil || req.startedAt > module.LastInvalidated() {
				select {
				case <-req.done:
					return req.result, req.err
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			// The pending work is known-stale: drop the bookkeeping and
			// re-issue. The stale computation keeps running; its result is
			// rejected by the module's cache-write guard.
			req.Abort()
			continue
		}

		result, err := p.doTransform(ctx, url, mode, req)
		req.settle(result, err)
		req.Abort()
		return result, err
	}
}

func (p *Pipeline) doTransform(ctx context.Context, url string, mode domain.TransformMode, req *pendingRequest) (*domain.TransformResult, error) {
	url = domain.RemoveTimestampQuery(url)
	ssr := mode.SSR()

	ctx, vertex := p.telemetry.Record(ctx, "transform "+url)

	if module := p.graph.ModuleByURL(url, ssr); module != nil {
		// The cache slot is itself invalidation-gated, so a present result
		// needs no further staleness check.
		if cached := module.Result(ssr); cached != nil {
			p.debug("cache hit", "url", url)
			vertex.Cached()
			return cached, nil
		}
	}

	id := url
	resolved, err := p.plugins.ResolveID(ctx, url, "", ports.ResolveOptions{SSR: ssr})
	if err != nil {
		vertex.Complete(err)
		return nil, err
	}
	if resolved != nil && resolved.ID != "" {
		id = resolved.ID
	}

	// The optimizer may need to hold its decision for this id until this
	// request settles. Notify without blocking.
	p.optimizer.DelayUntil(id, func() { <-req.done })

	result, err := p.loadAndTransform(ctx, id, url, mode, req.startedAt)
	vertex.Complete(err)
	return result, err
}

func (p *Pipeline) loadAndTransform(ctx context.Context, id, url string, mode domain.TransformMode, startedAt int64) (*domain.TransformResult, error) {
	ssr := mode.SSR()
	file := domain.CleanURL(id)

	var code string
	var inMap *domain.SourceMap

	loaded, err := p.plugins.Load(ctx, id, ports.LoadOptions{SSR: ssr})
	if err != nil {
		return nil, err
	}

	switch {
	case loaded != nil:
		code = loaded.Code
		inMap = loaded.Map

	case mode == domain.ModeHTMLFallback && !domain.IsHTMLRequest(file):
		// Speculative markup request for a non-markup id: no result, the
		// caller falls through to other handling.
		return nil, nil

	default:
		code, inMap, err = p.loadFromDisk(file, ssr)
		if err != nil {
			return nil, err
		}
	}

	if code == "" {
		return nil, p.loadError(url, id)
	}

	module, err := p.graph.EnsureEntryFromURL(url, ssr)
	if err != nil {
		return nil, err
	}
	bindFile := ""
	if filepath.IsAbs(file) {
		bindFile = file
	}
	if module.EnsureBinding(id, bindFile) {
		p.graph.BindFile(module, bindFile)
		if p.watcher != nil {
			if err := p.watcher.Add(bindFile); err != nil {
				p.debug("failed to watch file", "file", bindFile, "error", err)
			}
		}
	}

	moduleFile := module.BackingFile()
	if p.onLoad != nil && moduleFile != "" {
		go p.onLoad(moduleFile)
	}

	beforeTransform := code
	transformed, err := p.plugins.Transform(ctx, code, id, ports.TransformOptions{InMap: inMap, SSR: ssr})
	if err != nil {
		return nil, err
	}
	if transformed != nil && transformed.Code != "" {
		code = transformed.Code
		if transformed.Map != nil {
			inMap = transformed.Map
		}
	}

	if inMap != nil && moduleFile != "" {
		p.normalizeSourceMap(inMap, moduleFile)
	}

	if ssr && !p.cfg.SkipSSRTransform {
		result := p.ssrTransform(code, inMap, url, beforeTransform)
		module.SetResult(result, ssr, startedAt)
		return result, nil
	}

	result := &domain.TransformResult{
		Code: code,
		Map:  inMap,
		Etag: domain.Fingerprint(code),
	}
	module.SetResult(result, ssr, startedAt)
	return result, nil
}

// loadFromDisk is the raw filesystem fallback for ids no plugin loads. Only
// server-side requests and files inside the allowed-serving boundary may be
// read. A missing file is not an error here; the empty code falls through to
// the load-error classification.
func (p *Pipeline) loadFromDisk(file string, ssr bool) (string, *domain.SourceMap, error) {
	if !ssr && !p.cfg.AllowedToServe(file) {
		return "", nil, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, nil
		}
		return "", nil, zerr.With(zerr.Wrap(err, "failed to read module file"), "file", file)
	}

	code := string(data)
	smap, err := extractSourceMap(code, file)
	if err != nil {
		// A malformed map never fails the request; the code is served
		// without corrected positions.
		p.log.Warn("failed to extract source map", "file", file, "error", err)
		smap = nil
	}
	return code, smap, nil
}

// loadError classifies a failed load: public-asset misuse when the url maps
// into the public directory, generic not-found otherwise. Both carry the
// first known importer for diagnostics.
func (p *Pipeline) loadError(url, id string) error {
	importer := ""
	if module := p.graph.ModuleByID(id); module != nil {
		importer = module.FirstImporter()
	}

	var err error
	if public := p.cfg.PublicFile(url); public != "" && fileExists(public) {
		err = zerr.Wrap(domain.ErrLoadPublicURL,
			"files in the public directory are served at the root path; "+
				"reference "+strings.TrimPrefix(url, "/")+" from markup instead of importing it")
	} else {
		err = zerr.With(domain.ErrLoadNotFound, "url", url)
	}
	if importer != "" {
		err = zerr.With(err, "importer", importer)
	}
	return err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.log != nil {
		p.log.Debug(msg, args...)
	}
}
