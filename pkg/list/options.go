package list

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/observability"
	"github.com/goliatone/go-formstate/pkg/validation"
)

type settings struct {
	name     string
	configs  map[string]validation.Config[any]
	observer observability.Observer
	err      error
}

// Option customises a List at construction.
type Option func(*settings)

// Validates installs the validator declaration for attribute key. The
// declaration is normalized like a field's; typed validators can be adapted
// with validation.Any.
func Validates(key string, decl any) Option {
	return func(s *settings) {
		cfg, err := validation.Normalize[any](decl)
		if err != nil {
			if s.err == nil {
				s.err = fmt.Errorf("list: attribute %q: %w", key, err)
			}
			return
		}
		s.configs[key] = cfg
	}
}

// WithName labels the list in observability events.
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// WithObserver routes lifecycle events to observer.
func WithObserver(observer observability.Observer) Option {
	return func(s *settings) {
		if observer != nil {
			s.observer = observer
		}
	}
}
