package pipeline

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/zerr"

	"github.com/esmd-dev/esmd/internal/core/domain"
)

var sourceMappingURLRE = regexp.MustCompile(`//[#@] sourceMappingURL=(\S+)`)

// extractSourceMap pulls an inline data-uri map or a sibling .map file
// referenced from code loaded off disk. No reference means no map.
func extractSourceMap(code, file string) (*domain.SourceMap, error) {
	match := sourceMappingURLRE.FindStringSubmatch(code)
	if match == nil {
		return nil, nil
	}
	ref := match[1]

	if strings.HasPrefix(ref, "data:") {
		idx := strings.Index(ref, "base64,")
		if idx < 0 {
			return nil, zerr.With(zerr.New("unsupported inline source map encoding"), "file", file)
		}
		decoded, err := base64.StdEncoding.DecodeString(ref[idx+len("base64,"):])
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to decode inline source map"), "file", file)
		}
		return domain.ParseSourceMap(string(decoded))
	}

	sibling := filepath.Join(filepath.Dir(file), ref)
	data, err := os.ReadFile(sibling)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read sibling source map"), "file", sibling)
	}
	return domain.ParseSourceMap(string(data))
}

// normalizeSourceMap prepares a hook-produced map for serving against the
// module's backing file: injects missing sources content, accumulates the
// debugger ignore-list, and rewrites absolute source paths relative to the
// module directory so debuggers show short names.
func (p *Pipeline) normalizeSourceMap(sm *domain.SourceMap, moduleFile string) {
	if sm.HasMappings() && sm.MissingSourcesContent() {
		p.injectSourcesContent(sm, moduleFile)
	}

	dir := filepath.Dir(moduleFile)
	for i, source := range sm.Sources {
		if source == "" {
			continue
		}
		if p.cfg.ShouldIgnoreSource(source) {
			sm.AddToIgnoreList(i)
		}
		if filepath.IsAbs(source) && filepath.IsAbs(moduleFile) {
			if rel, err := filepath.Rel(dir, source); err == nil {
				sm.Sources[i] = filepath.ToSlash(rel)
			}
		}
	}
}

func (p *Pipeline) injectSourcesContent(sm *domain.SourceMap, moduleFile string) {
	dir := filepath.Dir(moduleFile)
	content := make([]*string, len(sm.Sources))
	copy(content, sm.SourcesContent)

	for i, source := range sm.Sources {
		if i < len(sm.SourcesContent) && sm.SourcesContent[i] != nil {
			content[i] = sm.SourcesContent[i]
			continue
		}
		if source == "" {
			continue
		}
		path := source
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			p.debug("missing source for source map", "source", source, "error", err)
			continue
		}
		text := string(data)
		content[i] = &text
	}
	sm.SourcesContent = content
}
