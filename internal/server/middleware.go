// Package server implements the HTTP surface of the dev server: the
// transform middleware, response sending, and router assembly.
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
	"github.com/esmd-dev/esmd/internal/engine/pipeline"
)

const (
	contentTypeJS  = "application/javascript"
	contentTypeCSS = "text/css"

	cacheControlNoCache   = "no-cache"
	cacheControlImmutable = "max-age=31536000,immutable"
)

// knownBypassPaths are well-known non-module requests the middleware never
// touches.
var knownBypassPaths = map[string]bool{
	"/favicon.ico": true,
	"/robots.txt":  true,
	"/sw.js":       true,
}

// TransformMiddleware serves transformed modules. Requests it does not
// recognize fall through to the next handler.
type TransformMiddleware struct {
	cfg       *domain.Config
	pipeline  *pipeline.Pipeline
	graph     ports.ModuleGraph
	optimizer ports.DepsOptimizer
	log       ports.Logger
}

// NewTransformMiddleware creates the middleware.
func NewTransformMiddleware(
	cfg *domain.Config,
	p *pipeline.Pipeline,
	graph ports.ModuleGraph,
	optimizer ports.DepsOptimizer,
	log ports.Logger,
) *TransformMiddleware {
	return &TransformMiddleware{
		cfg:       cfg,
		pipeline:  p,
		graph:     graph,
		optimizer: optimizer,
		log:       log,
	}
}

// Handler wraps next with the transform middleware, chi-style.
func (t *TransformMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || t.bypass(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		url := r.URL.Path
		if r.URL.RawQuery != "" {
			url += "?" + r.URL.RawQuery
		}
		url = domain.DecodeURL(url)
		url = domain.RemoveTimestampQuery(url)

		if strings.HasSuffix(domain.CleanURL(url), ".map") {
			t.serveSourceMap(w, r, url, next)
			return
		}

		t.warnPublicMisuse(url)

		if !t.recognized(url) {
			next.ServeHTTP(w, r)
			return
		}

		url = domain.RemoveImportQuery(url)
		url = domain.UnwrapID(url)

		// Stylesheet requests the browser fetches as css (rather than as a
		// js module graph edge) are tagged direct so serialization picks
		// css output downstream.
		if domain.IsCSSRequest(url) && !domain.HasDirectQuery(url) &&
			strings.Contains(r.Header.Get("Accept"), contentTypeCSS) {
			url = withDirectQuery(url)
		}

		if t.conditionalHit(w, r, url) {
			return
		}

		result, err := t.pipeline.TransformRequest(r.Context(), url, domain.ModeDefault)
		if err != nil {
			t.sendError(w, r, err, next)
			return
		}
		if result == nil {
			next.ServeHTTP(w, r)
			return
		}

		contentType := contentTypeJS
		if domain.IsCSSRequest(url) && domain.HasDirectQuery(url) {
			contentType = contentTypeCSS
		}
		cacheControl := cacheControlNoCache
		if t.optimizer.IsOptimizedDepURL(url) {
			cacheControl = cacheControlImmutable
		}
		t.send(w, []byte(result.Code), contentType, result.Etag, cacheControl)
	})
}

func (t *TransformMiddleware) bypass(path string) bool {
	return knownBypassPaths[path] || strings.HasPrefix(path, "/.well-known/")
}

// recognized reports whether the url is a source-module, import-tagged,
// stylesheet, or markup-script-proxy request.
func (t *TransformMiddleware) recognized(url string) bool {
	return domain.IsJSRequest(url) ||
		domain.HasImportQuery(url) ||
		domain.IsCSSRequest(url) ||
		domain.HasHTMLProxyQuery(url)
}

// conditionalHit answers If-None-Match requests from the module cache
// without invoking any hook.
func (t *TransformMiddleware) conditionalHit(w http.ResponseWriter, r *http.Request, url string) bool {
	ifNoneMatch := r.Header.Get("If-None-Match")
	if ifNoneMatch == "" {
		return false
	}
	module := t.graph.ModuleByURL(url, false)
	if module == nil {
		return false
	}
	result := module.Result(false)
	if result == nil || result.Etag != ifNoneMatch {
		return false
	}
	w.WriteHeader(http.StatusNotModified)
	return true
}

// serveSourceMap answers .map sub-requests. Maps of pre-optimized deps are
// read straight from the dependency cache directory; a read failure there is
// expected during re-optimization and yields an empty, valid map. Maps of
// regular modules come from the cached transform result.
func (t *TransformMiddleware) serveSourceMap(w http.ResponseWriter, r *http.Request, url string, next http.Handler) {
	moduleURL := strings.TrimSuffix(domain.CleanURL(url), ".map")

	if t.optimizer.IsOptimizedDepURL(moduleURL) {
		mapFile := domain.URLToFile(moduleURL, t.cfg.Root) + ".map"
		data, err := os.ReadFile(mapFile)
		if err != nil {
			empty, encodeErr := domain.EmptySourceMap(moduleURL).JSON()
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
				return
			}
			t.send(w, empty, "application/json", "", cacheControlNoCache)
			return
		}
		t.send(w, data, "application/json", "", cacheControlImmutable)
		return
	}

	module := t.graph.ModuleByURL(moduleURL, false)
	if module == nil {
		next.ServeHTTP(w, r)
		return
	}
	result := module.Result(false)
	if result == nil || result.Map == nil {
		next.ServeHTTP(w, r)
		return
	}
	data, err := result.Map.JSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	t.send(w, data, "application/json", "", cacheControlNoCache)
}

// warnPublicMisuse emits a non-fatal warning when a public asset is
// requested through the module pipeline. The response itself proceeds.
func (t *TransformMiddleware) warnPublicMisuse(url string) {
	public := t.cfg.PublicFile(url)
	if public == "" {
		return
	}
	if info, err := os.Stat(public); err != nil || info.IsDir() {
		return
	}
	if domain.HasImportQuery(url) {
		t.log.Warn("public asset imported from source code; "+
			"assets in the public directory should be referenced from markup", "url", url)
	} else {
		t.log.Warn("public asset requested through the module pipeline; "+
			"it is also served at the root path", "url", url)
	}
}

// sendError maps pipeline errors onto the HTTP contract.
func (t *TransformMiddleware) sendError(w http.ResponseWriter, r *http.Request, err error, next http.Handler) {
	switch domain.ErrorCode(err) {
	case domain.CodeOptimizeProcessing:
		// Unexpected if we got this far; logged. The client retries once
		// optimization settles.
		t.log.Error(err, "url", r.URL.Path)
		http.Error(w, "optimize deps processing", http.StatusGatewayTimeout)

	case domain.CodeOptimizeOutdated:
		// Expected during dependency re-optimization; silent.
		http.Error(w, "outdated optimize dep", http.StatusGatewayTimeout)

	case domain.CodeLoadNotFound, domain.CodeLoadPublicURL:
		// May be servable by a later handler (static files, index fallback).
		next.ServeHTTP(w, r)

	default:
		t.log.Error(err, "url", r.URL.Path)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (t *TransformMiddleware) send(w http.ResponseWriter, body []byte, contentType, etag, cacheControl string) {
	h := w.Header()
	for key, value := range t.cfg.Headers {
		h.Set(key, value)
	}
	h.Set("Content-Type", contentType)
	h.Set("Cache-Control", cacheControl)
	if etag != "" {
		h.Set("ETag", etag)
	}
	_, _ = w.Write(body)
}

func withDirectQuery(url string) string {
	if strings.Contains(url, "?") {
		return url + "&direct"
	}
	return url + "?direct"
}
