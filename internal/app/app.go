// Package app implements the application layer for esmd.
package app

import (
	"context"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"

	"github.com/esmd-dev/esmd/internal/adapters/optimizer"
	"github.com/esmd-dev/esmd/internal/adapters/watcher"
	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
	"github.com/esmd-dev/esmd/internal/engine/pipeline"
	"github.com/esmd-dev/esmd/internal/engine/scanner"
	"github.com/esmd-dev/esmd/internal/engine/warmup"
	"github.com/esmd-dev/esmd/internal/server"
)

// debounceWindow batches editor write bursts into one invalidation pass.
const debounceWindow = 50 * time.Millisecond

// App represents the main application logic.
type App struct {
	cfg       *domain.Config
	pipeline  *pipeline.Pipeline
	scanner   *scanner.Scanner
	warmer    *warmup.Warmer
	optimizer *optimizer.Coordinator
	watcher   ports.Watcher
	graph     ports.ModuleGraph
	server    *server.Server
	log       ports.Logger
	telemetry ports.Telemetry
}

// New creates a new App instance.
func New(
	cfg *domain.Config,
	pipe *pipeline.Pipeline,
	scan *scanner.Scanner,
	warmer *warmup.Warmer,
	coordinator *optimizer.Coordinator,
	watch ports.Watcher,
	graph ports.ModuleGraph,
	srv *server.Server,
	log ports.Logger,
	tel ports.Telemetry,
) *App {
	return &App{
		cfg:       cfg,
		pipeline:  pipe,
		scanner:   scan,
		warmer:    warmer,
		optimizer: coordinator,
		watcher:   watch,
		graph:     graph,
		server:    srv,
		log:       log,
		telemetry: tel,
	}
}

// Serve runs the dev server until the context is cancelled. The dependency
// scan and entry warmup happen in the background so the listener comes up
// immediately.
func (a *App) Serve(ctx context.Context) error {
	a.pipeline.SetOnLoad(a.warmer.OnLoad)

	if err := a.watcher.Start(ctx, a.cfg.Root); err != nil {
		return zerr.Wrap(err, "failed to start file watcher")
	}
	defer func() { _ = a.watcher.Stop() }()
	defer func() { _ = a.telemetry.Close() }()

	debouncer := watcher.NewDebouncer(debounceWindow, a.invalidate)
	go a.consumeEvents(debouncer)

	go a.warm(ctx)

	return a.server.ListenAndServe(ctx)
}

// Scan runs a single dependency scan over the configured entries and
// returns the resulting state. Used by the scan command.
func (a *App) Scan(ctx context.Context) (*domain.ScanState, error) {
	state, err := a.scanner.ScanImports(ctx, a.entryFiles())
	if err != nil {
		return nil, zerr.Wrap(err, "dependency scan failed")
	}
	return state, nil
}

// warm runs the startup scan, hands the discoveries to the optimizer and
// the prefetch warmer, then prefetches the entries' import graphs.
func (a *App) warm(ctx context.Context) {
	entries := a.entryFiles()

	state, err := a.scanner.ScanImports(ctx, entries)
	if err != nil {
		a.log.Warn("startup dependency scan failed", "error", err)
		return
	}

	a.optimizer.Register(state.Optimizable())
	a.warmer.SetScanState(state)

	for specifier, importer := range state.Missing() {
		a.log.Warn("import could not be resolved", "specifier", specifier, "importer", importer)
	}

	for _, entry := range entries {
		a.warmer.OnLoad(entry)
	}
}

func (a *App) consumeEvents(debouncer *watcher.Debouncer) {
	for event := range a.watcher.Events() {
		switch event.Operation {
		case ports.OpWrite, ports.OpCreate, ports.OpRemove, ports.OpRename:
			debouncer.Add(event.Path)
		}
	}
	debouncer.Flush()
}

func (a *App) invalidate(paths []string) {
	for _, path := range paths {
		a.log.Debug("invalidating", "file", path)
		a.graph.InvalidateFile(path)
		a.warmer.OnInvalidate(path)
	}
}

func (a *App) entryFiles() []string {
	entries := make([]string, 0, len(a.cfg.Entries))
	for _, entry := range a.cfg.Entries {
		if !filepath.IsAbs(entry) {
			entry = filepath.Join(a.cfg.Root, entry)
		}
		entries = append(entries, entry)
	}
	return entries
}
