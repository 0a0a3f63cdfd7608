package field

import (
	"github.com/goliatone/go-formstate/pkg/observability"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Observable is a value that can be linked into a field's validation
// context. *Field implements it.
type Observable interface {
	AnyValue() any
	Subscribe(fn func()) (unsubscribe func())
}

// Option customises a Field at construction.
type Option[V any] func(*Field[V])

// Validates normalizes a validator declaration (a validator, a slice of
// validators, validation.Rules or validation.Config) and installs it. An
// invalid declaration makes New fail.
func Validates[V any](decl any) Option[V] {
	return func(f *Field[V]) {
		cfg, err := validation.Normalize[V](decl)
		if err != nil {
			f.initErr = err
			return
		}
		f.config = cfg
	}
}

// WithConfig installs an already normalized chain.
func WithConfig[V any](cfg validation.Config[V]) Option[V] {
	return func(f *Field[V]) {
		f.config = cfg.Append()
	}
}

// WithValidators appends validators to the chain.
func WithValidators[V any](validators ...validation.Validator[V]) Option[V] {
	return func(f *Field[V]) {
		f.config = f.config.Append(validators...)
	}
}

// Linked feeds the current value of src to validators as ctx.Linked and
// re-validates the field whenever that value changes. It takes precedence
// over a static Rules.With value.
func Linked[V any](src Observable) Option[V] {
	return func(f *Field[V]) {
		if src != nil {
			f.link = src
		}
	}
}

// WithName labels the field in observability events.
func WithName[V any](name string) Option[V] {
	return func(f *Field[V]) {
		f.name = name
	}
}

// WithObserver routes lifecycle events to observer.
func WithObserver[V any](observer observability.Observer) Option[V] {
	return func(f *Field[V]) {
		if observer != nil {
			f.observer = observer
		}
	}
}
