package field

import (
	"context"
	"sync"

	"github.com/goliatone/go-formstate/internal/notify"
	"github.com/goliatone/go-formstate/pkg/observability"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Field is a reactive cell holding the state of one input. All methods are
// safe for concurrent use; each transition is applied atomically and
// subscribers are notified afterwards, outside the lock.
type Field[V any] struct {
	mu       sync.Mutex
	name     string
	current  state.Field[V]
	revision uint64
	config   validation.Config[V]
	source   V
	link     Observable
	linked   any
	unlink   func()
	hub      notify.Hub
	observer observability.Observer
	initErr  error
}

// New creates a field whose value and default are value.
func New[V any](value V, opts ...Option[V]) (*Field[V], error) {
	f := &Field[V]{
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.initErr != nil {
		return nil, f.initErr
	}

	f.current = state.New(value)
	f.source = value

	if f.link != nil {
		f.linked = f.link.AnyValue()
		f.unlink = f.link.Subscribe(f.onLinkedChange)
	}
	return f, nil
}

// MustNew is New for declarations known to be valid; it panics on error.
func MustNew[V any](value V, opts ...Option[V]) *Field[V] {
	f, err := New(value, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Kind reports state.KindField.
func (f *Field[V]) Kind() state.Kind {
	return state.KindField
}

// Name returns the label given with WithName.
func (f *Field[V]) Name() string {
	return f.name
}

// State returns a snapshot of the current state.
func (f *Field[V]) State() state.Field[V] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Value returns the current value.
func (f *Field[V]) Value() V {
	return f.State().Value
}

// AnyValue returns the current value as any, so fields can be linked and
// walked without knowing V.
func (f *Field[V]) AnyValue() any {
	return f.State().Value
}

// DefaultValue returns the current default.
func (f *Field[V]) DefaultValue() V {
	return f.State().DefaultValue
}

// Error returns the current validation message.
func (f *Field[V]) Error() string {
	return f.State().Error
}

// Touched reports whether the value changed since the last default.
func (f *Field[V]) Touched() bool {
	return f.State().Touched
}

// Dirty reports whether the value differs from the default.
func (f *Field[V]) Dirty() bool {
	return f.State().Dirty
}

// Linked returns the value currently fed to validators as ctx.Linked.
func (f *Field[V]) Linked() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.linkedLocked()
}

// Update sets the value, marks the field touched and recomputes dirty. It
// does not validate.
func (f *Field[V]) Update(value V) {
	f.mu.Lock()
	f.setLocked(f.current.Update(value))
	dirty := f.current.Dirty
	f.mu.Unlock()

	f.emit(observability.EventFieldUpdate, observability.LevelVerbose, map[string]any{"dirty": dirty})
	f.hub.Notify()
}

// OnChange accepts a raw value or a change event and applies Update.
func (f *Field[V]) OnChange(input any) error {
	value, err := Extract[V](input)
	if err != nil {
		return err
	}
	f.Update(value)
	return nil
}

// Validate runs the chain against the current value. Pristine fields without
// an existing message are left alone.
func (f *Field[V]) Validate() {
	f.validate(false)
}

// OnBlur is the blur handler; it validates the field.
func (f *Field[V]) OnBlur() {
	f.Validate()
}

// Revalidate runs the chain even when the field is pristine.
func (f *Field[V]) Revalidate() {
	f.validate(true)
}

// Reset restores the default and clears touched, dirty and error.
func (f *Field[V]) Reset() {
	f.mu.Lock()
	f.setLocked(f.current.Reset())
	f.mu.Unlock()

	f.emit(observability.EventFieldReset, observability.LevelVerbose, nil)
	f.hub.Notify()
}

// SetError overrides the message; used when reconciling server errors.
func (f *Field[V]) SetError(message string) {
	f.mu.Lock()
	f.setLocked(f.current.WithError(message))
	f.mu.Unlock()

	f.emit(observability.EventFieldError, observability.LevelVerbose, map[string]any{"error": message})
	f.hub.Notify()
}

// NewDefaultValue replaces value and default with value and discards
// touched, dirty and error.
func (f *Field[V]) NewDefaultValue(value V) {
	f.mu.Lock()
	f.setLocked(f.current.WithDefault(value))
	f.mu.Unlock()

	f.emit(observability.EventFieldDefault, observability.LevelVerbose, nil)
	f.hub.Notify()
}

// SetSource feeds the owner's source value. The field is re-defaulted only
// when value differs in identity from the previous source value, so owners
// can call SetSource on every refresh.
func (f *Field[V]) SetSource(value V) {
	f.mu.Lock()
	if state.Equal(f.source, value) {
		f.mu.Unlock()
		return
	}
	f.source = value
	f.mu.Unlock()

	f.NewDefaultValue(value)
}

// Subscribe registers fn to run after every transition.
func (f *Field[V]) Subscribe(fn func()) func() {
	return f.hub.Subscribe(fn)
}

// Close drops the subscription to the linked value.
func (f *Field[V]) Close() {
	f.mu.Lock()
	unlink := f.unlink
	f.unlink = nil
	f.mu.Unlock()

	if unlink != nil {
		unlink()
	}
}

func (f *Field[V]) validate(force bool) {
	f.mu.Lock()
	snapshot := f.current
	revision := f.revision
	cfg := f.config
	cfg.With = f.linkedLocked()
	f.mu.Unlock()

	if !force && !validation.ShouldRun(snapshot.Touched, snapshot.Error) {
		return
	}

	message := validation.Run(snapshot.Value, validation.Context{}, cfg)

	// A transition that landed while the chain ran owns the state now; the
	// message describes a value the field no longer holds.
	f.mu.Lock()
	if f.revision != revision {
		f.mu.Unlock()
		return
	}
	f.setLocked(f.current.WithError(message))
	f.mu.Unlock()

	level := observability.LevelVerbose
	if message != "" {
		level = observability.LevelInfo
	}
	f.emit(observability.EventFieldValidate, level, map[string]any{"error": message, "forced": force})
	f.hub.Notify()
}

func (f *Field[V]) setLocked(next state.Field[V]) {
	f.current = next
	f.revision++
}

func (f *Field[V]) linkedLocked() any {
	if f.link != nil {
		return f.linked
	}
	return f.config.With
}

func (f *Field[V]) onLinkedChange() {
	next := f.link.AnyValue()

	f.mu.Lock()
	if state.Equal(f.linked, next) {
		f.mu.Unlock()
		return
	}
	f.linked = next
	f.revision++
	f.mu.Unlock()

	f.validate(true)
}

func (f *Field[V]) emit(eventType observability.EventType, level observability.Level, data map[string]any) {
	observability.Emit(context.Background(), f.observer, eventType, level, f.name, data)
}
