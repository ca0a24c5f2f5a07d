package scanner

import (
	"regexp"
	"strings"
)

// The extraction pass is a textual heuristic: comments are blanked with a
// placeholder of the same shape, then a single pattern pulls quoted module
// specifiers out of import/export statements. Specifiers inside string or
// template literals that mimic import statements can misfire; the crawl is
// best-effort, so that trade-off is accepted for speed.
var (
	blockCommentRE = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	lineCommentRE  = regexp.MustCompile(`//.*`)

	fromImportRE       = regexp.MustCompile(`(?m)(?:^|;)\s*(import|export)\b([^'";]*?)\bfrom\s*['"]([^'"\n]+)['"]`)
	sideEffectImportRE = regexp.MustCompile(`(?m)(?:^|;)\s*import\s*['"]([^'"\n]+)['"]`)

	scriptTagRE  = regexp.MustCompile(`(?is)<script\b([^>]*)>(.*?)</script>`)
	scriptTypeRE = regexp.MustCompile(`(?i)\btype\s*=\s*["']([^"']+)["']`)
	scriptSrcRE  = regexp.MustCompile(`(?i)\bsrc\s*=\s*["']([^"']+)["']`)
)

// stripComments blanks block and line comments while keeping a placeholder
// of the same general shape, so positions of surrounding statements are
// unaffected for the specifier pattern.
func stripComments(code string) string {
	code = blockCommentRE.ReplaceAllString(code, "/* */")
	return lineCommentRE.ReplaceAllString(code, "//")
}

// extractSpecifiers returns every import/export module specifier in code, in
// source order, excluding type-only declarations.
func extractSpecifiers(code string) []string {
	code = stripComments(code)

	type hit struct {
		pos  int
		spec string
	}
	var hits []hit

	for _, m := range fromImportRE.FindAllStringSubmatchIndex(code, -1) {
		clause := strings.TrimSpace(code[m[4]:m[5]])
		// `import type {T} from "x"` and `export type {T} from "x"` carry no
		// runtime dependency.
		if clause == "type" || strings.HasPrefix(clause, "type ") || strings.HasPrefix(clause, "type{") {
			continue
		}
		hits = append(hits, hit{pos: m[0], spec: code[m[6]:m[7]]})
	}
	for _, m := range sideEffectImportRE.FindAllStringSubmatchIndex(code, -1) {
		hits = append(hits, hit{pos: m[0], spec: code[m[2]:m[3]]})
	}

	// Merge the two passes back into source order and drop duplicates.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j-1].pos > hits[j].pos; j-- {
			hits[j-1], hits[j] = hits[j], hits[j-1]
		}
	}

	seen := make(map[string]struct{}, len(hits))
	specs := make([]string, 0, len(hits))
	for _, h := range hits {
		if _, dup := seen[h.spec]; dup {
			continue
		}
		seen[h.spec] = struct{}{}
		specs = append(specs, h.spec)
	}
	return specs
}

// extractScripts concatenates the script content the crawler may parse:
// html documents contribute only module scripts, component markup files
// contribute every script block. A script tag with a src attribute becomes a
// synthetic side-effect import of that url.
func extractScripts(content string, htmlOnlyModules bool) string {
	var sb strings.Builder
	for _, m := range scriptTagRE.FindAllStringSubmatch(content, -1) {
		attrs, body := m[1], m[2]
		if htmlOnlyModules {
			tm := scriptTypeRE.FindStringSubmatch(attrs)
			if tm == nil || !strings.EqualFold(tm[1], "module") {
				continue
			}
		}
		if sm := scriptSrcRE.FindStringSubmatch(attrs); sm != nil {
			sb.WriteString("import '")
			sb.WriteString(sm[1])
			sb.WriteString("'\n")
			continue
		}
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	return sb.String()
}
