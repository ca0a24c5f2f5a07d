package plugins

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// probeExtensions are tried, in order, for extensionless specifiers.
var probeExtensions = []string{"", ".js", ".ts", ".jsx", ".tsx", ".mjs", ".mts", ".css"}

// ResolvePlugin is the built-in filesystem resolver: root-relative urls,
// relative specifiers against the importer, /@fs/ escapes, and bare
// specifiers against node_modules with package.json entry lookup.
type ResolvePlugin struct {
	cfg *domain.Config
}

// NewResolvePlugin creates the built-in resolver.
func NewResolvePlugin(cfg *domain.Config) *ResolvePlugin {
	return &ResolvePlugin{cfg: cfg}
}

// Name implements Plugin.
func (p *ResolvePlugin) Name() string { return "esmd:resolve" }

// ResolveID implements Resolver.
func (p *ResolvePlugin) ResolveID(_ context.Context, url, importer string, _ ports.ResolveOptions) (*ports.ResolvedID, error) {
	query := ""
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url, query = url[:i], url[i:]
	}

	var file string
	switch {
	case strings.HasPrefix(url, "\x00"):
		// Virtual ids belong to other plugins.
		return nil, nil

	case strings.HasPrefix(url, domain.FSPrefix):
		file = probe("/" + strings.TrimPrefix(url, domain.FSPrefix))

	case strings.HasPrefix(url, "/"):
		file = probe(filepath.Join(p.cfg.Root, url))

	case strings.HasPrefix(url, "."):
		base := p.cfg.Root
		if importer != "" {
			base = filepath.Dir(domain.CleanURL(importer))
		}
		file = probe(filepath.Join(base, url))

	case filepath.IsAbs(url):
		file = probe(url)

	case domain.IsBareSpecifier(url):
		file = p.resolveBare(url, importer)
	}

	if file == "" {
		return nil, nil
	}
	return &ports.ResolvedID{ID: file + query}, nil
}

// resolveBare walks node_modules directories upward from the importer.
func (p *ResolvePlugin) resolveBare(specifier, importer string) string {
	dir := p.cfg.Root
	if importer != "" && filepath.IsAbs(importer) {
		dir = filepath.Dir(domain.CleanURL(importer))
	}

	for {
		candidate := filepath.Join(dir, "node_modules", specifier)
		if file := resolvePackageEntry(candidate); file != "" {
			return file
		}
		if file := probe(candidate); file != "" {
			return file
		}
		parent := filepath.Dir(dir)
		if parent == dir || !strings.HasPrefix(dir, p.cfg.Root) {
			return ""
		}
		dir = parent
	}
}

// resolvePackageEntry reads a package directory's package.json and resolves
// its module or main entry.
func resolvePackageEntry(pkgDir string) string {
	data, err := os.ReadFile(filepath.Join(pkgDir, "package.json"))
	if err != nil {
		return ""
	}
	var pkg struct {
		Module string `json:"module"`
		Main   string `json:"main"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	entry := pkg.Module
	if entry == "" {
		entry = pkg.Main
	}
	if entry == "" {
		entry = "index.js"
	}
	return probe(filepath.Join(pkgDir, entry))
}

// probe resolves a path candidate by trying known extensions and a directory
// index.
func probe(path string) string {
	for _, ext := range probeExtensions {
		candidate := path + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		for _, index := range []string{"index.js", "index.ts"} {
			candidate := filepath.Join(path, index)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}
