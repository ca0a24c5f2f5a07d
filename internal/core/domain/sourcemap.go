package domain

import (
	"encoding/json"

	"go.trai.ch/zerr"
)

// SourceMap is the subset of the source map v3 format the pipeline rewrites:
// sources content injection, ignore-list accumulation, and source path
// normalization.
type SourceMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
	// IgnoreList indexes sources the debugger should hide from stack traces.
	IgnoreList []int `json:"ignoreList,omitempty"`
}

// ParseSourceMap decodes a map given as JSON text.
func ParseSourceMap(text string) (*SourceMap, error) {
	var sm SourceMap
	if err := json.Unmarshal([]byte(text), &sm); err != nil {
		return nil, zerr.Wrap(err, "failed to parse source map")
	}
	return &sm, nil
}

// HasMappings reports whether the map carries real mappings rather than the
// empty placeholder emitted for passthrough transforms.
func (sm *SourceMap) HasMappings() bool {
	return sm != nil && sm.Mappings != ""
}

// MissingSourcesContent reports whether sources content must be injected
// before the map is servable to a debugger.
func (sm *SourceMap) MissingSourcesContent() bool {
	if len(sm.Sources) == 0 {
		return false
	}
	if len(sm.SourcesContent) < len(sm.Sources) {
		return true
	}
	for _, content := range sm.SourcesContent {
		if content == nil {
			return true
		}
	}
	return false
}

// AddToIgnoreList appends idx if not already present.
func (sm *SourceMap) AddToIgnoreList(idx int) {
	for _, existing := range sm.IgnoreList {
		if existing == idx {
			return
		}
	}
	sm.IgnoreList = append(sm.IgnoreList, idx)
}

// JSON encodes the map for serving.
func (sm *SourceMap) JSON() ([]byte, error) {
	data, err := json.Marshal(sm)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode source map")
	}
	return data, nil
}

// EmptySourceMap returns a valid map with no mappings for the given file.
// Served when a pre-optimized dependency map vanished mid re-optimization.
func EmptySourceMap(file string) *SourceMap {
	return &SourceMap{
		Version:  3,
		File:     file,
		Sources:  []string{},
		Names:    []string{},
		Mappings: "",
	}
}
