package state

import "sort"

// Record is the attribute-name to field-state view of one list item, as
// handed to validators through the list and sibling context.
type Record map[string]Field[any]

// Get returns the state of an attribute.
func (r Record) Get(key string) (Field[any], bool) {
	if r == nil {
		return Field[any]{}, false
	}
	field, ok := r[key]
	return field, ok
}

// Value returns the current value of an attribute, or nil when absent.
func (r Record) Value(key string) any {
	field, ok := r.Get(key)
	if !ok {
		return nil
	}
	return field.Value
}

// Dirty reports whether any attribute of the record is dirty.
func (r Record) Dirty() bool {
	for _, field := range r {
		if field.Dirty {
			return true
		}
	}
	return false
}

// Values projects the record onto its raw values.
func (r Record) Values() map[string]any {
	out := make(map[string]any, len(r))
	for key, field := range r {
		out[key] = field.Value
	}
	return out
}

// Keys returns the attribute names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy safe to hand outside a lock.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, field := range r {
		out[key] = field
	}
	return out
}
