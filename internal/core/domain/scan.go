package domain

import "sync"

// ScannedImport is one import specifier extracted from a file, with the path
// it resolved to, if resolution succeeded.
type ScannedImport struct {
	Specifier string
	// Resolved is the absolute resolved path, or empty when unresolved.
	Resolved string
}

// ScanState accumulates the three mappings of one scanner run: per-file
// import lists, optimizable bare dependencies, and unresolvable specifiers.
// A file appears at most once as an imports key per run; a specifier is
// classified as optimizable or missing, never both.
type ScanState struct {
	mu sync.Mutex

	imports     map[string][]ScannedImport
	optimizable map[string]string
	missing     map[string]string
}

// NewScanState creates an empty scan state.
func NewScanState() *ScanState {
	return &ScanState{
		imports:     make(map[string][]ScannedImport),
		optimizable: make(map[string]string),
		missing:     make(map[string]string),
	}
}

// RegisterFile claims path for scanning. It returns false when the path was
// already claimed, which makes the per-file crawl single-flight and guards
// against cycles.
func (s *ScanState) RegisterFile(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.imports[path]; seen {
		return false
	}
	s.imports[path] = nil
	return true
}

// SetImports records the file's complete import list, in source order.
func (s *ScanState) SetImports(path string, imports []ScannedImport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imports[path] = imports
}

// Imports returns the recorded import list for path and whether one exists.
func (s *ScanState) Imports(path string) ([]ScannedImport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	imports, ok := s.imports[path]
	return imports, ok
}

// TakeImports removes and returns the recorded import list for path. The
// one-shot semantics keep the prefetch warmer from replaying stale lists.
func (s *ScanState) TakeImports(path string) ([]ScannedImport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	imports, ok := s.imports[path]
	if ok {
		delete(s.imports, path)
	}
	return imports, ok
}

// DropImports discards any recorded import list for path.
func (s *ScanState) DropImports(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.imports, path)
}

// AddOptimizable records specifier as an optimizable dependency. The first
// resolution wins; later duplicates from other importers are ignored.
func (s *ScanState) AddOptimizable(specifier, resolved string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.optimizable[specifier]; !seen {
		s.optimizable[specifier] = resolved
	}
}

// AddMissing records specifier as unresolvable, keyed by its first importer.
func (s *ScanState) AddMissing(specifier, importer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.missing[specifier]; !seen {
		s.missing[specifier] = importer
	}
}

// Optimizable returns a copy of the optimizable dependency mapping.
func (s *ScanState) Optimizable() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.optimizable))
	for k, v := range s.optimizable {
		out[k] = v
	}
	return out
}

// Missing returns a copy of the missing specifier mapping.
func (s *ScanState) Missing() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.missing))
	for k, v := range s.missing {
		out[k] = v
	}
	return out
}

// FileCount returns how many files have been registered this run.
func (s *ScanState) FileCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.imports)
}
