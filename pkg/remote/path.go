package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: either a key into a group or record, or an
// index into a list.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a key segment.
func Key(name string) Segment {
	return Segment{key: name}
}

// Index returns an index segment.
func Index(position int) Segment {
	return Segment{index: position, isIndex: true}
}

// IsIndex reports whether the segment addresses a list position.
func (s Segment) IsIndex() bool {
	return s.isIndex
}

// Name returns the key of a key segment.
func (s Segment) Name() (string, bool) {
	if s.isIndex {
		return "", false
	}
	return s.key, true
}

// Position returns the index of an index segment.
func (s Segment) Position() (int, bool) {
	if !s.isIndex {
		return 0, false
	}
	return s.index, true
}

// AsIndex is Position extended to keys spelled as non-negative decimal
// integers, so ["variants", "1", "price"] addresses a list record the same
// way as ["variants", 1, "price"].
func (s Segment) AsIndex() (int, bool) {
	if s.isIndex {
		return s.index, true
	}
	if s.key == "" {
		return 0, false
	}
	for _, r := range s.key {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	index, err := strconv.Atoi(s.key)
	if err != nil {
		return 0, false
	}
	return index, true
}

// Equal reports whether both segments address the same step.
func (s Segment) Equal(other Segment) bool {
	return s == other
}

func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// MarshalJSON encodes keys as strings and indexes as numbers.
func (s Segment) MarshalJSON() ([]byte, error) {
	if s.isIndex {
		return json.Marshal(s.index)
	}
	return json.Marshal(s.key)
}

// UnmarshalJSON accepts a string or an integer.
func (s *Segment) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var key string
		if err := json.Unmarshal(data, &key); err != nil {
			return err
		}
		*s = Key(key)
		return nil
	}

	var index int
	if err := json.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("remote: path segment %s: %w", data, err)
	}
	*s = Index(index)
	return nil
}

// Path addresses a leaf inside a form.
type Path []Segment

// PathOf builds a path from strings (keys) and ints (indexes). Other values
// are formatted as keys.
func PathOf(parts ...any) Path {
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		switch typed := part.(type) {
		case Segment:
			out = append(out, typed)
		case int:
			out = append(out, Index(typed))
		case string:
			out = append(out, Key(typed))
		default:
			out = append(out, Key(fmt.Sprint(typed)))
		}
	}
	return out
}

// Empty reports whether the path has no segments.
func (p Path) Empty() bool {
	return len(p) == 0
}

// String renders the path in dotted form, e.g. "variants.1.price".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, segment := range p {
		parts[i] = segment.String()
	}
	return strings.Join(parts, ".")
}

// ParsePath reads dotted ("variants.1.price"), bracketed
// ("variants[1].price") and JSON pointer ("/variants/1/price") paths.
// Non-negative integer parts become index segments.
func ParsePath(raw string) Path {
	parts := parsePathSegments(raw)
	if len(parts) == 0 {
		return nil
	}

	out := make(Path, 0, len(parts))
	for _, part := range parts {
		if index, err := strconv.Atoi(part); err == nil && index >= 0 {
			out = append(out, Index(index))
			continue
		}
		out = append(out, Key(part))
	}
	return out
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return nil
	}

	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$.")
	for len(clean) > 0 && strings.ContainsRune("#/.$", rune(clean[0])) {
		clean = clean[1:]
	}

	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	fields := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(fields))
	for _, field := range fields {
		segment := strings.TrimSpace(field)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}
