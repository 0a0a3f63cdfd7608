package form

import "github.com/goliatone/go-formstate/pkg/observability"

// Option customises a Form at construction.
type Option func(*Form)

// WithName labels the form in observability events.
func WithName(name string) Option {
	return func(f *Form) {
		f.name = name
	}
}

// WithObserver routes lifecycle events to observer.
func WithObserver(observer observability.Observer) Option {
	return func(f *Form) {
		if observer != nil {
			f.observer = observer
		}
	}
}
