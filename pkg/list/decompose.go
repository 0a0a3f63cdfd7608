package list

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

type structField struct {
	key   string
	index []int
}

var structCache sync.Map // reflect.Type -> []structField

func structFields(t reflect.Type) []structField {
	if cached, ok := structCache.Load(t); ok {
		return cached.([]structField)
	}

	fields := make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key, skip := attributeName(sf)
		if skip {
			continue
		}
		fields = append(fields, structField{key: key, index: sf.Index})
	}

	structCache.Store(t, fields)
	return fields
}

// attributeName resolves the attribute key of a struct field: the form tag,
// then the json tag, then the field name.
func attributeName(sf reflect.StructField) (string, bool) {
	for _, tag := range []string{"form", "json"} {
		raw, ok := sf.Tag.Lookup(tag)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(raw, ",")
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, false
		}
	}
	return sf.Name, false
}

// decompose splits an item into its attribute values, with the keys in a
// stable order.
func decompose(item any) ([]string, map[string]any, error) {
	v := reflect.ValueOf(item)
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil, nil, fmt.Errorf("%w: nil %s", ErrUnsupportedItem, v.Type())
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil, nil, fmt.Errorf("%w: nil item", ErrUnsupportedItem)
	}

	switch v.Kind() {
	case reflect.Struct:
		fields := structFields(v.Type())
		keys := make([]string, 0, len(fields))
		values := make(map[string]any, len(fields))
		for _, field := range fields {
			keys = append(keys, field.key)
			values[field.key] = v.FieldByIndex(field.index).Interface()
		}
		return keys, values, nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, nil, fmt.Errorf("%w: map key %s", ErrUnsupportedItem, v.Type().Key())
		}
		keys := make([]string, 0, v.Len())
		values := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			keys = append(keys, key)
			values[key] = iter.Value().Interface()
		}
		sort.Strings(keys)
		return keys, values, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedItem, v.Type())
	}
}

// compose rebuilds an Item from attribute values.
func compose[Item any](values map[string]any) (Item, error) {
	var zero Item
	t := reflect.TypeFor[Item]()

	switch t.Kind() {
	case reflect.Interface:
		if out, ok := any(values).(Item); ok {
			return out, nil
		}
		return zero, fmt.Errorf("%w: cannot build %s", ErrUnsupportedItem, t)
	case reflect.Struct:
		out := reflect.New(t).Elem()
		if err := fillStruct(out, values); err != nil {
			return zero, err
		}
		return out.Interface().(Item), nil
	case reflect.Pointer:
		if t.Elem().Kind() != reflect.Struct {
			return zero, fmt.Errorf("%w: %s", ErrUnsupportedItem, t)
		}
		out := reflect.New(t.Elem())
		if err := fillStruct(out.Elem(), values); err != nil {
			return zero, err
		}
		return out.Interface().(Item), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return zero, fmt.Errorf("%w: map key %s", ErrUnsupportedItem, t.Key())
		}
		out := reflect.MakeMapWithSize(t, len(values))
		for key, value := range values {
			elem := reflect.New(t.Elem()).Elem()
			if err := assign(elem, key, value); err != nil {
				return zero, err
			}
			out.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), elem)
		}
		return out.Interface().(Item), nil
	default:
		return zero, fmt.Errorf("%w: %s", ErrUnsupportedItem, t)
	}
}

func fillStruct(dst reflect.Value, values map[string]any) error {
	for _, field := range structFields(dst.Type()) {
		value, ok := values[field.key]
		if !ok {
			continue
		}
		if err := assign(dst.FieldByIndex(field.index), field.key, value); err != nil {
			return err
		}
	}
	return nil
}

func assign(dst reflect.Value, key string, value any) error {
	if value == nil {
		dst.SetZero()
		return nil
	}

	src := reflect.ValueOf(value)
	switch {
	case src.Type().AssignableTo(dst.Type()):
		dst.Set(src)
	case src.Kind() == dst.Kind() && src.Type().ConvertibleTo(dst.Type()):
		dst.Set(src.Convert(dst.Type()))
	default:
		return fmt.Errorf("%w: attribute %q: cannot use %T as %s", ErrUnsupportedItem, key, value, dst.Type())
	}
	return nil
}

// accepts reports whether value may replace an attribute whose default is
// current without changing the attribute's type.
func accepts(current, value any) bool {
	if current == nil || value == nil {
		return true
	}
	return reflect.TypeOf(value).AssignableTo(reflect.TypeOf(current))
}
