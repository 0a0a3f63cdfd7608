package list

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formstate/internal/notify"
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/observability"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/validation"
)

var (
	// ErrIndexOutOfRange is returned for a target index outside the list.
	ErrIndexOutOfRange = errors.New("list: index out of range")
	// ErrUnknownAttribute is returned for a target key the record does not have.
	ErrUnknownAttribute = errors.New("list: unknown attribute")
	// ErrStaleRecord is returned by handlers whose record was discarded by a
	// reinitialization.
	ErrStaleRecord = errors.New("list: stale record")
	// ErrUnsupportedItem is returned for items that cannot be decomposed into
	// attributes, or attribute values that cannot be composed back.
	ErrUnsupportedItem = errors.New("list: unsupported item")
)

// Target addresses one attribute cell.
type Target struct {
	Index int
	Key   string
}

type record struct {
	id         uuid.UUID
	generation uint64
	keys       []string
	cells      map[string]state.Field[any]
	revisions  map[string]uint64
}

// set stores a cell and bumps its revision. Callers hold the list lock.
func (r *record) set(key string, cell state.Field[any]) {
	r.cells[key] = cell
	r.revisions[key]++
}

func (r *record) snapshot() state.Record {
	return state.Record(r.cells).Clone()
}

// List is the state of a list of records. All methods are safe for
// concurrent use; subscribers are notified after each transition, outside
// the lock.
type List[Item any] struct {
	mu         sync.Mutex
	name       string
	configs    map[string]validation.Config[any]
	records    []*record
	generation uint64
	source     []Item
	hub        notify.Hub
	observer   observability.Observer
}

// New creates a list initialized from items.
func New[Item any](items []Item, opts ...Option) (*List[Item], error) {
	s := &settings{
		configs:  make(map[string]validation.Config[any]),
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.err != nil {
		return nil, s.err
	}

	l := &List[Item]{
		name:     s.name,
		configs:  s.configs,
		observer: s.observer,
	}

	records, err := l.build(items, 1)
	if err != nil {
		return nil, err
	}
	l.records = records
	l.generation = 1
	l.source = items
	return l, nil
}

// MustNew is New for items and declarations known to be valid; it panics on
// error.
func MustNew[Item any](items []Item, opts ...Option) *List[Item] {
	l, err := New(items, opts...)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *List[Item]) build(items []Item, generation uint64) ([]*record, error) {
	records := make([]*record, 0, len(items))
	for i, item := range items {
		keys, values, err := decompose(item)
		if err != nil {
			return nil, fmt.Errorf("list: item %d: %w", i, err)
		}
		rec := &record{
			id:         uuid.New(),
			generation: generation,
			keys:       keys,
			cells:      make(map[string]state.Field[any], len(keys)),
			revisions:  make(map[string]uint64, len(keys)),
		}
		for _, key := range keys {
			rec.cells[key] = state.New(values[key])
		}
		records = append(records, rec)
	}
	return records, nil
}

// Kind reports state.KindList.
func (l *List[Item]) Kind() state.Kind {
	return state.KindList
}

// Name returns the label given with WithName.
func (l *List[Item]) Name() string {
	return l.name
}

// Len returns the number of records.
func (l *List[Item]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Generation increases with every reinitialization.
func (l *List[Item]) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

// Records returns a snapshot of every record.
func (l *List[Item]) Records() []state.Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]state.Record, len(l.records))
	for i, rec := range l.records {
		out[i] = rec.snapshot()
	}
	return out
}

// Record returns a snapshot of the record at index.
func (l *List[Item]) Record(index int) (state.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.recordLocked(index)
	if err != nil {
		return nil, err
	}
	return rec.snapshot(), nil
}

// Cell returns the state of one attribute.
func (l *List[Item]) Cell(target Target) (state.Field[any], error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.recordLocked(target.Index)
	if err != nil {
		return state.Field[any]{}, err
	}
	cell, ok := rec.cells[target.Key]
	if !ok {
		return state.Field[any]{}, fmt.Errorf("%w: %q", ErrUnknownAttribute, target.Key)
	}
	return cell, nil
}

// Reinitialize replaces every record with fresh cells built from items. All
// previous dirty, touched and error state is discarded.
func (l *List[Item]) Reinitialize(items []Item) error {
	records, err := l.build(items, 0)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.generation++
	generation := l.generation
	for _, rec := range records {
		rec.generation = generation
	}
	l.records = records
	l.source = items
	l.mu.Unlock()

	l.emit(observability.EventListReinitialize, observability.LevelVerbose, map[string]any{
		"records":    len(records),
		"generation": generation,
	})
	l.hub.Notify()
	return nil
}

// SetSource reinitializes the list when items is not the slice it was last
// built from.
func (l *List[Item]) SetSource(items []Item) error {
	l.mu.Lock()
	same := state.Equal(any(l.source), any(items))
	l.mu.Unlock()

	if same {
		return nil
	}
	return l.Reinitialize(items)
}

// UpdateField records an edit of one cell. It does not validate.
func (l *List[Item]) UpdateField(target Target, value any) error {
	return l.mutate(target, observability.EventListUpdate, func(cell state.Field[any]) (state.Field[any], error) {
		if !accepts(cell.DefaultValue, value) {
			return cell, fmt.Errorf("%w: %T for attribute %q", field.ErrUnsupportedInput, value, target.Key)
		}
		return cell.Update(value), nil
	})
}

// ResetField restores one cell to its default.
func (l *List[Item]) ResetField(target Target) error {
	return l.mutate(target, observability.EventListReset, func(cell state.Field[any]) (state.Field[any], error) {
		return cell.Reset(), nil
	})
}

// SetDefaultField replaces the value and default of one cell.
func (l *List[Item]) SetDefaultField(target Target, value any) error {
	return l.mutate(target, observability.EventListUpdate, func(cell state.Field[any]) (state.Field[any], error) {
		return cell.WithDefault(value), nil
	})
}

// SetFieldError overrides the message of one cell.
func (l *List[Item]) SetFieldError(target Target, message string) error {
	return l.mutate(target, observability.EventListUpdate, func(cell state.Field[any]) (state.Field[any], error) {
		return cell.WithError(message), nil
	})
}

// ValidateField runs the attribute's chain for one cell with the record as
// ListItem and every other record as Siblings. Pristine cells without a
// message are left alone.
func (l *List[Item]) ValidateField(target Target) error {
	l.mu.Lock()
	rec, err := l.recordLocked(target.Index)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.mu.Unlock()
	return l.validateRecord(rec, target.Key)
}

// Dirty reports whether any cell differs from its default.
func (l *List[Item]) Dirty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, rec := range l.records {
		if state.Record(rec.cells).Dirty() {
			return true
		}
	}
	return false
}

// Reset restores every cell to its default.
func (l *List[Item]) Reset() {
	l.mu.Lock()
	for _, rec := range l.records {
		for key, cell := range rec.cells {
			rec.set(key, cell.Reset())
		}
	}
	l.mu.Unlock()

	l.emit(observability.EventListReset, observability.LevelVerbose, nil)
	l.hub.Notify()
}

// Values projects the list onto plain attribute maps.
func (l *List[Item]) Values() []map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]map[string]any, len(l.records))
	for i, rec := range l.records {
		out[i] = state.Record(rec.cells).Values()
	}
	return out
}

// Decode composes the current values back into items.
func (l *List[Item]) Decode() ([]Item, error) {
	values := l.Values()
	out := make([]Item, 0, len(values))
	for i, attrs := range values {
		item, err := compose[Item](attrs)
		if err != nil {
			return nil, fmt.Errorf("list: item %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// Subscribe registers fn to run after every transition.
func (l *List[Item]) Subscribe(fn func()) func() {
	return l.hub.Subscribe(fn)
}

func (l *List[Item]) recordLocked(index int) (*record, error) {
	if index < 0 || index >= len(l.records) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(l.records))
	}
	return l.records[index], nil
}

func (l *List[Item]) liveLocked(rec *record) bool {
	return rec.generation == l.generation
}

func (l *List[Item]) mutate(target Target, eventType observability.EventType, fn func(state.Field[any]) (state.Field[any], error)) error {
	l.mu.Lock()
	rec, err := l.recordLocked(target.Index)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.mu.Unlock()
	return l.mutateRecord(rec, target.Key, eventType, fn)
}

func (l *List[Item]) mutateRecord(rec *record, key string, eventType observability.EventType, fn func(state.Field[any]) (state.Field[any], error)) error {
	l.mu.Lock()
	if !l.liveLocked(rec) {
		l.mu.Unlock()
		return ErrStaleRecord
	}
	cell, ok := rec.cells[key]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, key)
	}
	next, err := fn(cell)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	rec.set(key, next)
	l.mu.Unlock()

	l.emit(eventType, observability.LevelVerbose, map[string]any{"record": rec.id.String(), "key": key})
	l.hub.Notify()
	return nil
}

func (l *List[Item]) validateRecord(rec *record, key string) error {
	l.mu.Lock()
	if !l.liveLocked(rec) {
		l.mu.Unlock()
		return ErrStaleRecord
	}
	cell, ok := rec.cells[key]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, key)
	}
	if !validation.ShouldRun(cell.Touched, cell.Error) {
		l.mu.Unlock()
		return nil
	}

	item := rec.snapshot()
	siblings := make([]state.Record, 0, len(l.records))
	for _, other := range l.records {
		if other == rec {
			continue
		}
		siblings = append(siblings, other.snapshot())
	}
	cfg := l.configs[key]
	revision := rec.revisions[key]
	l.mu.Unlock()

	message := validation.Run(cell.Value, validation.Context{ListItem: item, Siblings: siblings}, cfg)

	// Drop the message when the cell changed while the chain ran.
	l.mu.Lock()
	if !l.liveLocked(rec) || rec.revisions[key] != revision {
		l.mu.Unlock()
		return nil
	}
	rec.set(key, rec.cells[key].WithError(message))
	l.mu.Unlock()

	level := observability.LevelVerbose
	if message != "" {
		level = observability.LevelInfo
	}
	l.emit(observability.EventListValidate, level, map[string]any{"record": rec.id.String(), "key": key, "error": message})
	l.hub.Notify()
	return nil
}

func (l *List[Item]) emit(eventType observability.EventType, level observability.Level, data map[string]any) {
	observability.Emit(context.Background(), l.observer, eventType, level, l.name, data)
}
