package state

// Field is the state tuple of a single scalar input. An empty Error means the
// field currently has no validation message.
type Field[V any] struct {
	Value        V      `json:"value"`
	DefaultValue V      `json:"defaultValue"`
	Error        string `json:"error,omitempty"`
	Touched      bool   `json:"touched"`
	Dirty        bool   `json:"dirty"`
}

// New returns the initial state for value: value and default are equal and
// the field is pristine.
func New[V any](value V) Field[V] {
	return Field[V]{
		Value:        value,
		DefaultValue: value,
	}
}

// Update records a user edit. It marks the field touched and recomputes dirty
// against the current default. Validation is not run.
func (f Field[V]) Update(value V) Field[V] {
	f.Value = value
	f.Touched = true
	f.Dirty = !Equal(f.DefaultValue, value)
	return f
}

// Reset restores the default value and clears touched, dirty and error.
func (f Field[V]) Reset() Field[V] {
	f.Value = f.DefaultValue
	f.Dirty = false
	f.Touched = false
	f.Error = ""
	return f
}

// WithDefault replaces the default (and the value) wholesale, discarding
// touched, dirty and any error.
func (f Field[V]) WithDefault(value V) Field[V] {
	return New(value)
}

// WithError overrides the error message. An empty message clears it.
func (f Field[V]) WithError(message string) Field[V] {
	f.Error = message
	return f
}

// HasError reports whether the field carries a message.
func (f Field[V]) HasError() bool {
	return f.Error != ""
}

// Any erases the value type so heterogeneous fields can share a Record.
func (f Field[V]) Any() Field[any] {
	return Field[any]{
		Value:        f.Value,
		DefaultValue: f.DefaultValue,
		Error:        f.Error,
		Touched:      f.Touched,
		Dirty:        f.Dirty,
	}
}
