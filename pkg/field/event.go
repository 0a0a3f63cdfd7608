package field

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnsupportedInput is returned when a change input is neither a value of
// the field's type nor an event carrying one.
var ErrUnsupportedInput = errors.New("field: unsupported input")

// TargetValuer is implemented by change events that carry the new value on
// their target, mirroring `event.target.value` in UI toolkits.
type TargetValuer interface {
	TargetValue() any
}

// EventTarget is the element that produced a ChangeEvent.
type EventTarget struct {
	Value any
}

// ChangeEvent is a minimal UI change event.
type ChangeEvent struct {
	Target EventTarget
}

// TargetValue returns the value carried by the event target.
func (e ChangeEvent) TargetValue() any {
	return e.Target.Value
}

// Extract normalizes a change input into a V. Events are unwrapped before the
// type check so a Field[any] never stores the event itself.
func Extract[V any](input any) (V, error) {
	var zero V

	if event, ok := input.(TargetValuer); ok {
		input = event.TargetValue()
	}

	if input == nil {
		if reflect.TypeFor[V]().Kind() == reflect.Interface {
			return zero, nil
		}
		return zero, fmt.Errorf("%w: nil for %s", ErrUnsupportedInput, reflect.TypeFor[V]())
	}

	value, ok := input.(V)
	if !ok {
		return zero, fmt.Errorf("%w: %T for %s", ErrUnsupportedInput, input, reflect.TypeFor[V]())
	}
	return value, nil
}
