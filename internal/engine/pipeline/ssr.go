package pipeline

import (
	"regexp"

	"github.com/esmd-dev/esmd/internal/core/domain"
)

var (
	ssrStaticImportRE  = regexp.MustCompile(`(?m)^\s*(?:import|export)\b[^'"` + "`" + `]*?from\s*['"]([^'"]+)['"]`)
	ssrSideEffectRE    = regexp.MustCompile(`(?m)^\s*import\s*['"]([^'"]+)['"]`)
	ssrDynamicImportRE = regexp.MustCompile(`\bimport\(\s*['"]([^'"]+)['"]\s*\)`)
)

// ssrTransform is the server-side post-processing pass: it records the
// module's static and dynamic dependency lists so the server-side module
// runner can fetch them ahead of evaluation. The code itself is left intact;
// rewriting import syntax is the job of the execution environment.
func (p *Pipeline) ssrTransform(code string, sm *domain.SourceMap, url, _ string) *domain.TransformResult {
	seen := make(map[string]struct{})
	var deps []string
	for _, re := range []*regexp.Regexp{ssrStaticImportRE, ssrSideEffectRE} {
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			if _, dup := seen[m[1]]; !dup {
				seen[m[1]] = struct{}{}
				deps = append(deps, m[1])
			}
		}
	}

	var dynamic []string
	for _, m := range ssrDynamicImportRE.FindAllStringSubmatch(code, -1) {
		if _, dup := seen[m[1]]; !dup {
			seen[m[1]] = struct{}{}
			dynamic = append(dynamic, m[1])
		}
	}

	p.debug("ssr transform", "url", url, "deps", len(deps))
	return &domain.TransformResult{
		Code:        code,
		Map:         sm,
		Etag:        domain.Fingerprint(code),
		Deps:        deps,
		DynamicDeps: dynamic,
	}
}
