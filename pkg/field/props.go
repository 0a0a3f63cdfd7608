package field

// Props is the handle handed to a rendering collaborator: the field state
// plus callbacks bound to this field.
type Props[V any] struct {
	Value        V
	Error        string
	DefaultValue V
	Touched      bool
	Dirty        bool

	OnChange func(input any) error
	OnBlur   func()
	Reset    func()
}

// Props snapshots the field for rendering.
func (f *Field[V]) Props() Props[V] {
	current := f.State()
	return Props[V]{
		Value:        current.Value,
		Error:        current.Error,
		DefaultValue: current.DefaultValue,
		Touched:      current.Touched,
		Dirty:        current.Dirty,
		OnChange:     f.OnChange,
		OnBlur:       f.OnBlur,
		Reset:        f.Reset,
	}
}
