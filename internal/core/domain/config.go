package domain

import (
	"path/filepath"
	"strings"
)

// Config is the resolved server configuration.
type Config struct {
	// Root is the absolute project root.
	Root string
	// PublicDir is the absolute public assets directory.
	PublicDir string
	// Port is the HTTP listen port.
	Port int

	// Entries are the scan entry points, relative to Root.
	Entries []string

	// FSAllow lists absolute directory prefixes the server may read raw
	// files from. Root is always allowed.
	FSAllow []string

	// OptimizeInclude force-includes bare specifiers into pre-bundling.
	OptimizeInclude []string
	// OptimizeExclude exempts bare specifiers from pre-bundling.
	OptimizeExclude []string

	// SourcemapIgnorePrefixes marks source paths to hide from debugger
	// stack traces. Defaults to the dependency install area.
	SourcemapIgnorePrefixes []string

	// SkipSSRTransform disables the server-side post-processing pass.
	SkipSSRTransform bool

	// Headers are extra response headers for transformed modules.
	Headers map[string]string
}

// AllowedToServe reports whether the server may read the given absolute file
// path as a raw filesystem fallback.
func (c *Config) AllowedToServe(file string) bool {
	if within(file, c.Root) {
		return true
	}
	for _, dir := range c.FSAllow {
		if within(file, dir) {
			return true
		}
	}
	return false
}

// PublicFile maps a root-relative url onto the public assets directory,
// returning the absolute candidate path. Existence is the caller's concern.
func (c *Config) PublicFile(url string) string {
	if c.PublicDir == "" {
		return ""
	}
	return filepath.Join(c.PublicDir, strings.TrimPrefix(CleanURL(url), "/"))
}

// DepCacheDir returns the absolute pre-bundled dependency cache directory.
func (c *Config) DepCacheDir() string {
	return filepath.Join(c.Root, DepCacheDirName)
}

// ShouldIgnoreSource reports whether a source map source path should be added
// to the debugger ignore list.
func (c *Config) ShouldIgnoreSource(path string) bool {
	prefixes := c.SourcemapIgnorePrefixes
	if len(prefixes) == 0 {
		prefixes = []string{"node_modules"}
	}
	for _, prefix := range prefixes {
		if strings.Contains(path, prefix) {
			return true
		}
	}
	return false
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
