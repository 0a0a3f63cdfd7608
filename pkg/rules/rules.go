package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/remote"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// ErrUnknownRule is returned for a rule name Build does not know.
var ErrUnknownRule = errors.New("rules: unknown rule")

// Rule is one entry of a rules document.
type Rule struct {
	Rule    string `json:"rule" yaml:"rule"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Length  int    `json:"length,omitempty" yaml:"length,omitempty"`
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Key     string `json:"key,omitempty" yaml:"key,omitempty"`
	Scope   string `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// Set holds validator chains keyed by normalized field path.
type Set struct {
	chains  map[string][]validation.Validator[any]
	sources map[string]string
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{
		chains:  make(map[string][]validation.Validator[any]),
		sources: make(map[string]string),
	}
}

// NormalizePath reduces a field path to its key segments joined by dots.
func NormalizePath(path string) string {
	keys := make([]string, 0, 4)
	for _, segment := range remote.ParsePath(path) {
		if name, ok := segment.Name(); ok {
			keys = append(keys, name)
		}
	}
	return strings.Join(keys, ".")
}

// Add appends validators to the chain of path.
func (s *Set) Add(path string, validators ...validation.Validator[any]) {
	key := NormalizePath(path)
	if key == "" {
		return
	}
	for _, v := range validators {
		if v != nil {
			s.chains[key] = append(s.chains[key], v)
		}
	}
}

// Validators returns the chain for path, or nil.
func (s *Set) Validators(path string) []validation.Validator[any] {
	if s == nil {
		return nil
	}
	chain := s.chains[NormalizePath(path)]
	if len(chain) == 0 {
		return nil
	}
	return append([]validation.Validator[any](nil), chain...)
}

// Source returns the file path defines path in, when it came from LoadFS.
func (s *Set) Source(path string) (string, bool) {
	if s == nil {
		return "", false
	}
	source, ok := s.sources[NormalizePath(path)]
	return source, ok
}

// Paths returns the normalized paths with a chain, sorted.
func (s *Set) Paths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.chains))
	for path := range s.chains {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether the set holds any chain.
func (s *Set) Empty() bool {
	return s == nil || len(s.chains) == 0
}

// Merge adds every chain of other to s. Paths defined in both get other's
// validators appended.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}
	for _, path := range other.Paths() {
		s.chains[path] = append(s.chains[path], other.chains[path]...)
		if source, ok := other.sources[path]; ok {
			if _, exists := s.sources[path]; !exists {
				s.sources[path] = source
			}
		}
	}
}

// Chain returns the validators of path adapted to a typed field.
func Chain[V any](s *Set, path string) []validation.Validator[V] {
	validators := s.Validators(path)
	out := make([]validation.Validator[V], 0, len(validators))
	for _, v := range validators {
		out = append(out, validation.Typed[V](v))
	}
	return out
}

// Build turns a rule entry into a validator. path is used as the default
// key of unique rules.
func Build(path string, rule Rule) (validation.Validator[any], error) {
	content := any(rule.Message)
	if rule.Message == "" {
		content = nil
	}

	switch strings.ToLower(strings.TrimSpace(rule.Rule)) {
	case "notempty", "required":
		return validation.Erase(validation.NotEmpty(content)), nil
	case "numeric":
		return validation.Erase(validation.Numeric(content)), nil
	case "lengthmorethan", "minlength":
		return validation.Erase(validation.LengthMoreThan(rule.Length, content)), nil
	case "lengthlessthan", "maxlength":
		return validation.Erase(validation.LengthLessThan(rule.Length, content)), nil
	case "matches", "pattern":
		if rule.Pattern == "" {
			return nil, fmt.Errorf("rules: %s: pattern rule without pattern", path)
		}
		return validation.Erase(validation.Matches(rule.Pattern, content)), nil
	case "nomarkup":
		return validation.Erase(validation.NoMarkup(content)), nil
	case "unique":
		key := rule.Key
		if key == "" {
			parts := strings.Split(NormalizePath(path), ".")
			key = parts[len(parts)-1]
		}
		return validation.UniqueAmongSiblings(key, rule.Scope, content), nil
	default:
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnknownRule, rule.Rule, path)
	}
}
