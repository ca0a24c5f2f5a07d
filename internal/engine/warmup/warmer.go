// Package warmup implements the eager prefetch warmer: when a file is
// loaded, the transform pipeline is invoked ahead of time for every import
// the dependency scanner previously recorded for that file.
package warmup

import (
	"context"
	"os"
	"sync"

	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// Transformer is the slice of the pipeline the warmer drives.
type Transformer interface {
	TransformRequest(ctx context.Context, url string, mode domain.TransformMode) (*domain.TransformResult, error)
}

// Warmer consumes scanner metadata to pipeline follow-up transform requests
// before the browser asks for them.
type Warmer struct {
	cfg      *domain.Config
	pipeline Transformer
	log      ports.Logger

	mu    sync.Mutex
	state *domain.ScanState
}

// New creates a Warmer with no scan metadata; arm it with SetScanState once
// a scanner run completes.
func New(cfg *domain.Config, pipeline Transformer, log ports.Logger) *Warmer {
	return &Warmer{
		cfg:      cfg,
		pipeline: pipeline,
		log:      log,
	}
}

// SetScanState installs the metadata of a finished scanner run.
func (w *Warmer) SetScanState(state *domain.ScanState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
}

// OnLoad fires when the pipeline loaded file. The recorded import list is
// consumed exactly once: a second load of the same file prefetches nothing
// until the file is re-scanned.
func (w *Warmer) OnLoad(file string) {
	w.mu.Lock()
	state := w.state
	w.mu.Unlock()
	if state == nil {
		return
	}

	imports, ok := state.TakeImports(file)
	if !ok {
		return
	}

	for _, imp := range imports {
		if imp.Resolved == "" {
			continue
		}
		url := domain.FileToURL(imp.Resolved, w.cfg.Root, fileExists)
		go w.prefetch(url)
	}
}

// OnInvalidate fires when file changed on disk. Any recorded import list is
// dropped immediately; a stale prefetch list must never replay.
func (w *Warmer) OnInvalidate(file string) {
	w.mu.Lock()
	state := w.state
	w.mu.Unlock()
	if state != nil {
		state.DropImports(file)
	}
}

// prefetch is fire-and-forget: errors are logged and dropped, never
// propagated to the request that triggered the warmup.
func (w *Warmer) prefetch(url string) {
	if _, err := w.pipeline.TransformRequest(context.Background(), url, domain.ModeDefault); err != nil {
		w.log.Debug("prefetch failed", "url", url, "error", err)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
