package domain

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Shared url and id conventions between the middleware, pipeline, scanner,
// and warmer.
const (
	// NullByteMarker is the escaped form of the \x00 prefix that tags
	// virtual module ids in urls.
	NullByteMarker = "__x00__"
	// VirtualIDPrefix wraps internal ids so they survive url encoding.
	VirtualIDPrefix = "/@id/"
	// FSPrefix escapes absolute filesystem paths outside the project root.
	FSPrefix = "/@fs/"
	// ClientModulePath serves the injected dev client.
	ClientModulePath = "/@client"
	// EnvModulePath serves the injected env shim.
	EnvModulePath = "/@env"
	// DepCacheDirName is the pre-bundled dependency cache, under Root.
	DepCacheDirName = "node_modules/.esmd/deps"
)

var (
	timestampRE = regexp.MustCompile(`(\?|&)t=\d+&?`)
	importRE    = regexp.MustCompile(`(\?|&)import=?(&|$)`)
	directRE    = regexp.MustCompile(`(\?|&)direct=?(&|$)`)
	trailingRE  = regexp.MustCompile(`[?&]$`)

	jsExtensions     = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".mts", ".cjs"}
	cssExtensions    = []string{".css", ".scss", ".sass", ".less", ".styl"}
	htmlExtensions   = []string{".html", ".htm"}
	markupExtensions = []string{".vue", ".svelte", ".astro"}
)

// CleanURL strips query string and fragment.
func CleanURL(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		return u[:i]
	}
	return u
}

// RemoveTimestampQuery strips the cache-busting t=<millis> query parameter.
func RemoveTimestampQuery(u string) string {
	return trimTrailingSeparators(timestampRE.ReplaceAllString(u, "$1"))
}

// RemoveImportQuery strips the ?import tag added to urls referenced from
// transformed code.
func RemoveImportQuery(u string) string {
	return trimTrailingSeparators(importRE.ReplaceAllString(u, "$1"))
}

// RemoveDirectQuery strips the ?direct tag used for raw css serving.
func RemoveDirectQuery(u string) string {
	return trimTrailingSeparators(directRE.ReplaceAllString(u, "$1"))
}

func trimTrailingSeparators(u string) string {
	return trailingRE.ReplaceAllString(u, "")
}

// HasImportQuery reports whether the url carries the ?import tag.
func HasImportQuery(u string) bool { return importRE.MatchString(u) }

// HasDirectQuery reports whether the url carries the ?direct tag.
func HasDirectQuery(u string) bool { return directRE.MatchString(u) }

// HasHTMLProxyQuery reports whether the url is a markup script proxy request.
func HasHTMLProxyQuery(u string) bool { return strings.Contains(u, "html-proxy") }

// UnwrapID restores an /@id/-wrapped url to the underlying module id,
// including the literal null byte for virtual ids.
func UnwrapID(u string) string {
	if strings.HasPrefix(u, VirtualIDPrefix) {
		return strings.Replace(strings.TrimPrefix(u, VirtualIDPrefix), NullByteMarker, "\x00", 1)
	}
	return u
}

// DecodeURL percent-decodes the request path and restores the escaped
// null-byte marker. Path-style unescaping keeps a literal + intact, which is
// legal in filenames.
func DecodeURL(u string) string {
	if decoded, err := url.PathUnescape(u); err == nil {
		u = decoded
	}
	return strings.Replace(u, NullByteMarker, "\x00", 1)
}

// IsJSRequest reports whether the url names a script module by extension.
// Extensionless urls that are not directories also qualify, matching how
// import specifiers usually omit extensions.
func IsJSRequest(u string) bool {
	u = CleanURL(u)
	if hasExt(u, jsExtensions) {
		return true
	}
	if path.Ext(u) == "" && !strings.HasSuffix(u, "/") {
		return true
	}
	return false
}

// IsCSSRequest reports whether the url names a stylesheet by extension.
func IsCSSRequest(u string) bool {
	return hasExt(CleanURL(u), cssExtensions)
}

// IsHTMLRequest reports whether the url names an html document.
func IsHTMLRequest(u string) bool {
	return hasExt(CleanURL(u), htmlExtensions)
}

// IsMarkupFile reports whether the path is a component-markup file whose
// script blocks the scanner extracts.
func IsMarkupFile(p string) bool {
	return hasExt(CleanURL(p), markupExtensions)
}

// IsScannable reports whether the crawler should parse this path for
// further imports.
func IsScannable(p string) bool {
	p = CleanURL(p)
	return hasExt(p, jsExtensions) || hasExt(p, htmlExtensions) || hasExt(p, markupExtensions)
}

// IsBareSpecifier reports whether a specifier refers to a package rather
// than a relative or absolute path.
func IsBareSpecifier(spec string) bool {
	if spec == "" {
		return false
	}
	if strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
		return false
	}
	if strings.HasPrefix(spec, "\x00") || strings.HasPrefix(spec, "virtual:") {
		return false
	}
	// Windows drive letters and explicit protocols are not bare.
	if strings.Contains(spec, "://") || filepath.IsAbs(spec) {
		return false
	}
	return true
}

// IsDepArtifact reports whether an absolute path lives inside a dependency
// install area.
func IsDepArtifact(p string) bool {
	return strings.Contains(p, "node_modules")
}

// IsOptimizable reports whether a resolved dependency artifact is eligible
// for pre-bundling: script sources only, never markup or assets.
func IsOptimizable(p string) bool {
	return hasExt(CleanURL(p), jsExtensions)
}

// FileToURL normalizes a resolved file id to a request-able url:
// root-relative when inside the project root, /@fs/-prefixed when it exists
// elsewhere on disk, otherwise unchanged.
func FileToURL(file, root string, exists func(string) bool) string {
	if !filepath.IsAbs(file) {
		return file
	}
	if within(file, root) {
		return "/" + filepath.ToSlash(mustRel(root, file))
	}
	if exists != nil && exists(CleanURL(file)) {
		return FSPrefix + strings.TrimPrefix(filepath.ToSlash(file), "/")
	}
	return file
}

// URLToFile maps a request url back to an absolute filesystem candidate.
func URLToFile(u, root string) string {
	u = CleanURL(u)
	if strings.HasPrefix(u, FSPrefix) {
		return "/" + strings.TrimPrefix(u, FSPrefix)
	}
	return filepath.Join(root, strings.TrimPrefix(u, "/"))
}

func hasExt(u string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(u, ext) {
			return true
		}
	}
	return false
}

func mustRel(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}
