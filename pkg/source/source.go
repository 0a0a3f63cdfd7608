package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-formstate/internal/notify"
	"github.com/goliatone/go-formstate/pkg/observability"
)

// Loader fetches a new value for a Source.
type Loader[T any] func(ctx context.Context) (T, error)

// Option customises a Source at construction.
type Option func(*settings)

type settings struct {
	name     string
	observer observability.Observer
}

// WithName labels the source in observability events.
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// WithObserver routes load events to observer.
func WithObserver(observer observability.Observer) Option {
	return func(s *settings) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// Source is a reactive value with a loading flag.
type Source[T any] struct {
	name     string
	observer observability.Observer

	mu      sync.Mutex
	value   T
	loading bool
	version uint64
	err     error
	hub     notify.Hub
}

// New returns a source holding initial.
func New[T any](initial T, opts ...Option) *Source[T] {
	s := &settings{observer: observability.NoOpObserver{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return &Source[T]{
		name:     s.name,
		observer: s.observer,
		value:    initial,
	}
}

// Get returns the current value.
func (s *Source[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Loading reports whether a Load is in flight.
func (s *Source[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Version counts the values stored since creation.
func (s *Source[T]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Err returns the error of the last Load, if it failed.
func (s *Source[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Set stores value and notifies subscribers.
func (s *Source[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	s.version++
	s.err = nil
	s.mu.Unlock()

	s.hub.Notify()
}

// Load runs fn and stores its result. The loading flag is raised for the
// duration of the call; on failure the previous value is kept.
func (s *Source[T]) Load(ctx context.Context, fn Loader[T]) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.hub.Notify()
	observability.Emit(ctx, s.observer, observability.EventSourceLoadStart, observability.LevelVerbose, s.name, nil)

	value, err := fn(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = err
	} else {
		s.value = value
		s.version++
		s.err = nil
	}
	version := s.version
	s.mu.Unlock()

	if err != nil {
		observability.Emit(ctx, s.observer, observability.EventSourceLoadFailed, observability.LevelError, s.name, map[string]any{"error": err.Error()})
		s.hub.Notify()
		return fmt.Errorf("source: load %s: %w", s.name, err)
	}

	observability.Emit(ctx, s.observer, observability.EventSourceLoadComplete, observability.LevelInfo, s.name, map[string]any{"version": version})
	s.hub.Notify()
	return nil
}

// Subscribe registers fn to run after every change.
func (s *Source[T]) Subscribe(fn func()) func() {
	return s.hub.Subscribe(fn)
}

// Bind feeds pick(value) to apply now and after every change of src. apply
// is typically a field's or list's SetSource, which only re-defaults when
// the picked value changed identity. Errors from apply are reported to the
// source's observer. The returned function stops the binding.
func Bind[T, V any](src *Source[T], pick func(T) V, apply func(V) error) func() {
	run := func() {
		if err := apply(pick(src.Get())); err != nil {
			observability.Emit(context.Background(), src.observer, observability.EventSourceBindFailed, observability.LevelError, src.name, map[string]any{"error": err.Error()})
		}
	}
	run()
	return src.Subscribe(run)
}

// Setter adapts a SetSource method without an error result for Bind.
func Setter[V any](set func(V)) func(V) error {
	return func(value V) error {
		set(value)
		return nil
	}
}
