package rules

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Fields map[string][]Rule `json:"fields" yaml:"fields"`
}

// Parse reads one JSON or YAML rules document. source names the document in
// error messages.
func Parse(data []byte, source string) (*Set, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}

	set := NewSet()
	paths := make([]string, 0, len(doc.Fields))
	for path := range doc.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		key := NormalizePath(path)
		if key == "" {
			return nil, fmt.Errorf("rules: file %s field key %q normalises to empty path", source, path)
		}
		if _, exists := set.chains[key]; exists {
			return nil, fmt.Errorf("rules: file %s defines duplicate field path %q", source, key)
		}
		for idx, rule := range doc.Fields[path] {
			validator, err := Build(path, rule)
			if err != nil {
				return nil, fmt.Errorf("rules: file %s field %q rule %d: %w", source, path, idx, err)
			}
			set.Add(key, validator)
		}
		set.sources[key] = source
	}
	return set, nil
}

// LoadFS walks fsys and merges every JSON/YAML rules document. A path may be
// defined by one file only. When fsys is nil the returned set is empty.
func LoadFS(fsys fs.FS) (*Set, error) {
	set := NewSet()
	if fsys == nil {
		return set, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isRulesFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("rules: read %s: %w", path, err)
		}

		parsed, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, key := range parsed.Paths() {
			if previous, exists := set.sources[key]; exists {
				return fmt.Errorf("rules: field path %q defined in %s and %s", key, previous, path)
			}
		}
		set.Merge(parsed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("rules: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("rules: parse %s: invalid JSON or YAML", source)
}

func isRulesFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
