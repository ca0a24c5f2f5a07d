// Package scanner implements the static dependency crawler: a fixpoint graph
// crawl over source files that classifies bare import specifiers as
// optimizable dependencies or missing.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// Scanner crawls entry files for import specifiers.
type Scanner struct {
	cfg       *domain.Config
	plugins   ports.PluginContainer
	log       ports.Logger
	telemetry ports.Telemetry
}

// New creates a Scanner.
func New(cfg *domain.Config, plugins ports.PluginContainer, log ports.Logger, telemetry ports.Telemetry) *Scanner {
	return &Scanner{
		cfg:       cfg,
		plugins:   plugins,
		log:       log,
		telemetry: telemetry,
	}
}

// ScanImports crawls from the given entry files (absolute, or relative to
// the project root) until no new work appears. Cancel the context to stop
// the crawl early; cancellation is cooperative and never an error. The
// returned state holds per-file import lists for the prefetch warmer plus
// the optimizable and missing classifications.
func (s *Scanner) ScanImports(ctx context.Context, entries []string) (*domain.ScanState, error) {
	state := domain.NewScanState()
	resolver := newScanResolver(s.cfg, s.plugins, state)

	ctx, vertex := s.telemetry.Record(ctx, "scan dependencies")

	run := &scanRun{
		scanner:  s,
		state:    state,
		resolver: resolver,
	}
	run.group, run.ctx = errgroup.WithContext(ctx)

	for _, entry := range entries {
		path := entry
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.cfg.Root, path)
		}
		run.scanFile(path)
	}

	// The group only settles once a full wait adds no new work: every
	// recursive discovery registers with the group before its parent task
	// returns, so Wait is the fixpoint.
	err := run.group.Wait()
	vertex.Complete(err)
	if ctx.Err() != nil {
		return state, nil
	}
	return state, err
}

// scanRun is the per-invocation crawl state.
type scanRun struct {
	scanner  *Scanner
	state    *domain.ScanState
	resolver *scanResolver
	group    *errgroup.Group
	ctx      context.Context
}

// scanFile queues path for crawling. Registering the file before any work is
// spawned makes the crawl single-flight per path and cycle-safe.
func (r *scanRun) scanFile(path string) {
	if r.ctx.Err() != nil {
		return
	}
	if !r.state.RegisterFile(path) {
		return
	}
	r.group.Go(func() error {
		r.processFile(path)
		return nil
	})
}

func (r *scanRun) processFile(path string) {
	if r.ctx.Err() != nil {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Best-effort crawl: an unreadable file contributes no imports.
		r.scanner.log.Debug("scan skipped unreadable file", "file", path, "error", err)
		return
	}

	code := string(data)
	switch {
	case domain.IsHTMLRequest(path):
		code = extractScripts(code, true)
	case domain.IsMarkupFile(path):
		code = extractScripts(code, false)
	case !domain.IsScannable(path):
		return
	}

	specs := extractSpecifiers(code)
	if len(specs) == 0 {
		r.state.SetImports(path, nil)
		return
	}

	// Resolve every specifier concurrently, but keep the recorded list in
	// source order.
	imports := make([]domain.ScannedImport, len(specs))
	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		r.group.Go(func() error {
			defer wg.Done()
			if r.ctx.Err() != nil {
				return nil
			}
			resolved := r.resolver.resolve(r.ctx, spec, path)
			imports[i] = domain.ScannedImport{Specifier: spec, Resolved: resolved}
			if resolved != "" && !domain.IsDepArtifact(resolved) && domain.IsScannable(resolved) {
				r.scanFile(resolved)
			}
			return nil
		})
	}
	wg.Wait()
	r.state.SetImports(path, imports)
}
