package domain_test

import (
	"strings"
	"testing"

	"github.com/esmd-dev/esmd/internal/core/domain"
)

func TestParseSourceMap(t *testing.T) {
	sm, err := domain.ParseSourceMap(`{"version":3,"sources":["main.ts"],"names":[],"mappings":"AAAA"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm.Version != 3 || len(sm.Sources) != 1 || sm.Sources[0] != "main.ts" {
		t.Errorf("unexpected map: %+v", sm)
	}
	if !sm.HasMappings() {
		t.Error("expected mappings to be present")
	}

	if _, err := domain.ParseSourceMap("{not json"); err == nil {
		t.Error("expected parse error")
	}
}

func TestSourceMap_MissingSourcesContent(t *testing.T) {
	content := "const x = 1"
	tests := []struct {
		name string
		sm   *domain.SourceMap
		want bool
	}{
		{"no sources", &domain.SourceMap{}, false},
		{"no content", &domain.SourceMap{Sources: []string{"a.ts"}}, true},
		{"short content", &domain.SourceMap{Sources: []string{"a.ts", "b.ts"}, SourcesContent: []*string{&content}}, true},
		{"nil entry", &domain.SourceMap{Sources: []string{"a.ts"}, SourcesContent: []*string{nil}}, true},
		{"complete", &domain.SourceMap{Sources: []string{"a.ts"}, SourcesContent: []*string{&content}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sm.MissingSourcesContent(); got != tt.want {
				t.Errorf("MissingSourcesContent = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSourceMap_AddToIgnoreList(t *testing.T) {
	sm := &domain.SourceMap{}
	sm.AddToIgnoreList(1)
	sm.AddToIgnoreList(0)
	sm.AddToIgnoreList(1)

	if len(sm.IgnoreList) != 2 {
		t.Errorf("expected deduplicated ignore list, got %v", sm.IgnoreList)
	}
}

func TestEmptySourceMap(t *testing.T) {
	sm := domain.EmptySourceMap("/deps/react.js")
	if sm.HasMappings() {
		t.Error("empty map must carry no mappings")
	}

	data, err := sm.JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, `"version":3`) || !strings.Contains(text, `"sources":[]`) {
		t.Errorf("unexpected encoding: %s", text)
	}
}

func TestFingerprint(t *testing.T) {
	a := domain.Fingerprint("const a = 1")
	b := domain.Fingerprint("const a = 2")
	if a == b {
		t.Error("expected distinct fingerprints for distinct code")
	}
	if a != domain.Fingerprint("const a = 1") {
		t.Error("expected fingerprint to be deterministic")
	}
	if !strings.HasPrefix(a, `W/"`) || !strings.HasSuffix(a, `"`) {
		t.Errorf("expected weak etag shape, got %s", a)
	}
}
