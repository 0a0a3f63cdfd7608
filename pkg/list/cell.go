package list

import (
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/observability"
	"github.com/goliatone/go-formstate/pkg/remote"
	"github.com/goliatone/go-formstate/pkg/state"
)

// Cell is the rendering handle of one attribute: its state at projection
// time plus handlers bound to the record's identity.
type Cell struct {
	Index        int
	Key          string
	Value        any
	DefaultValue any
	Error        string
	Touched      bool
	Dirty        bool

	OnChange   func(input any) error
	OnBlur     func() error
	Reset      func() error
	SetDefault func(value any) error
}

// Fields projects every record into cells keyed by attribute.
func (l *List[Item]) Fields() []map[string]Cell {
	l.mu.Lock()
	records := make([]*record, len(l.records))
	copy(records, l.records)
	snapshots := make([]state.Record, len(records))
	for i, rec := range records {
		snapshots[i] = rec.snapshot()
	}
	l.mu.Unlock()

	out := make([]map[string]Cell, len(records))
	for i, rec := range records {
		cells := make(map[string]Cell, len(rec.keys))
		for _, key := range rec.keys {
			cells[key] = l.cell(i, rec, key, snapshots[i][key])
		}
		out[i] = cells
	}
	return out
}

func (l *List[Item]) cell(index int, rec *record, key string, current state.Field[any]) Cell {
	return Cell{
		Index:        index,
		Key:          key,
		Value:        current.Value,
		DefaultValue: current.DefaultValue,
		Error:        current.Error,
		Touched:      current.Touched,
		Dirty:        current.Dirty,
		OnChange: func(input any) error {
			value, err := field.Extract[any](input)
			if err != nil {
				return err
			}
			return l.mutateRecord(rec, key, observability.EventListUpdate, func(cell state.Field[any]) (state.Field[any], error) {
				if !accepts(cell.DefaultValue, value) {
					return cell, field.ErrUnsupportedInput
				}
				return cell.Update(value), nil
			})
		},
		OnBlur: func() error {
			return l.validateRecord(rec, key)
		},
		Reset: func() error {
			return l.mutateRecord(rec, key, observability.EventListReset, func(cell state.Field[any]) (state.Field[any], error) {
				return cell.Reset(), nil
			})
		},
		SetDefault: func(value any) error {
			return l.mutateRecord(rec, key, observability.EventListUpdate, func(cell state.Field[any]) (state.Field[any], error) {
				return cell.WithDefault(value), nil
			})
		},
	}
}

// Child resolves an index segment, or a key holding a decimal index, to the
// record at that position, for remote error reconciliation.
func (l *List[Item]) Child(segment remote.Segment) (any, bool) {
	index, ok := segment.AsIndex()
	if !ok {
		return nil, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	rec, err := l.recordLocked(index)
	if err != nil {
		return nil, false
	}
	return recordNode[Item]{list: l, rec: rec}, true
}

type recordNode[Item any] struct {
	list *List[Item]
	rec  *record
}

func (n recordNode[Item]) Child(segment remote.Segment) (any, bool) {
	key, ok := segment.Name()
	if !ok {
		return nil, false
	}

	n.list.mu.Lock()
	defer n.list.mu.Unlock()
	if _, exists := n.rec.cells[key]; !exists {
		return nil, false
	}
	return cellTarget[Item]{list: n.list, rec: n.rec, key: key}, true
}

type cellTarget[Item any] struct {
	list *List[Item]
	rec  *record
	key  string
}

func (t cellTarget[Item]) SetError(message string) {
	_ = t.list.mutateRecord(t.rec, t.key, observability.EventListUpdate, func(cell state.Field[any]) (state.Field[any], error) {
		return cell.WithError(message), nil
	})
}
