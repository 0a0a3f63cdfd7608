package validation

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/state"
)

// ErrUnsupportedDeclaration is returned by Normalize for values that are not
// a validator, a slice of validators, Rules or Config.
var ErrUnsupportedDeclaration = errors.New("validation: unsupported declaration")

// Validator inspects a value and returns a message when it is invalid, or an
// empty string when it passes.
type Validator[V any] func(value V, ctx Context) string

// Context carries the cross-field inputs available to a validator. Linked is
// the value configured through Rules.With (or a linked field); ListItem and
// Siblings are only populated for list attributes.
type Context struct {
	Linked   any
	ListItem state.Record
	Siblings []state.Record
}

// LinkedAs returns the linked value asserted to T.
func LinkedAs[T any](ctx Context) (T, bool) {
	value, ok := ctx.Linked.(T)
	return value, ok
}

// Rules is the object form of a declaration. Using holds a single validator
// or a slice of them; With is passed through unchanged as the linked value.
type Rules[V any] struct {
	Using any
	With  any
}

// Config is the normalized declaration: an ordered chain plus the optional
// linked value.
type Config[V any] struct {
	Using []Validator[V]
	With  any
}

// Empty reports whether the chain has no validators.
func (c Config[V]) Empty() bool {
	return len(c.Using) == 0
}

// Append returns a copy of the config with extra validators at the end of
// the chain.
func (c Config[V]) Append(validators ...Validator[V]) Config[V] {
	out := Config[V]{With: c.With}
	out.Using = make([]Validator[V], 0, len(c.Using)+len(validators))
	out.Using = append(out.Using, c.Using...)
	for _, v := range validators {
		if v != nil {
			out.Using = append(out.Using, v)
		}
	}
	return out
}

// Normalize converts a declaration into a Config.
func Normalize[V any](decl any) (Config[V], error) {
	switch typed := decl.(type) {
	case nil:
		return Config[V]{}, nil
	case Config[V]:
		return typed.Append(), nil
	case *Config[V]:
		if typed == nil {
			return Config[V]{}, nil
		}
		return typed.Append(), nil
	case Rules[V]:
		return normalizeRules(typed)
	case *Rules[V]:
		if typed == nil {
			return Config[V]{}, nil
		}
		return normalizeRules(*typed)
	}

	using, err := normalizeUsing[V](decl)
	if err != nil {
		return Config[V]{}, err
	}
	return Config[V]{Using: using}, nil
}

// MustNormalize is Normalize for declarations known to be valid at compile
// time; it panics on error.
func MustNormalize[V any](decl any) Config[V] {
	cfg, err := Normalize[V](decl)
	if err != nil {
		panic(err)
	}
	return cfg
}

func normalizeRules[V any](rules Rules[V]) (Config[V], error) {
	using, err := normalizeUsing[V](rules.Using)
	if err != nil {
		return Config[V]{}, err
	}
	return Config[V]{Using: using, With: rules.With}, nil
}

func normalizeUsing[V any](using any) ([]Validator[V], error) {
	switch typed := using.(type) {
	case nil:
		return nil, nil
	case Validator[V]:
		return compact([]Validator[V]{typed}), nil
	case func(V, Context) string:
		return compact([]Validator[V]{typed}), nil
	case []Validator[V]:
		return compact(typed), nil
	case []func(V, Context) string:
		out := make([]Validator[V], 0, len(typed))
		for _, fn := range typed {
			out = append(out, fn)
		}
		return compact(out), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedDeclaration, using)
	}
}

func compact[V any](validators []Validator[V]) []Validator[V] {
	out := make([]Validator[V], 0, len(validators))
	for _, v := range validators {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// Run executes the chain in declared order with ctx.Linked set to cfg.With.
// Every validator runs; the first non-empty message is returned.
func Run[V any](value V, ctx Context, cfg Config[V]) string {
	ctx.Linked = cfg.With

	var messages []string
	for _, check := range cfg.Using {
		if check == nil {
			continue
		}
		if message := check(value, ctx); message != "" {
			messages = append(messages, message)
		}
	}

	if len(messages) == 0 {
		return ""
	}
	return messages[0]
}

// ShouldRun reports whether validation should run for a field. Pristine
// fields without an existing message are skipped so users do not see errors
// before interacting with an input.
func ShouldRun(touched bool, currentError string) bool {
	return touched || currentError != ""
}

// Erase adapts a typed validator to Validator[any] so it can be used on list
// attributes. Values of another dynamic type pass; a nil value is checked as
// the zero value of V.
func Erase[V any](validator Validator[V]) Validator[any] {
	if validator == nil {
		return nil
	}
	return func(value any, ctx Context) string {
		if value == nil {
			var zero V
			return validator(zero, ctx)
		}
		typed, ok := value.(V)
		if !ok {
			return ""
		}
		return validator(typed, ctx)
	}
}

// Any erases a list of typed validators.
func Any[V any](validators ...Validator[V]) []Validator[any] {
	out := make([]Validator[any], 0, len(validators))
	for _, v := range validators {
		if erased := Erase(v); erased != nil {
			out = append(out, erased)
		}
	}
	return out
}

// Typed adapts a Validator[any] (for example one loaded from a rules file)
// to a typed field.
func Typed[V any](validator Validator[any]) Validator[V] {
	if validator == nil {
		return nil
	}
	return func(value V, ctx Context) string {
		return validator(value, ctx)
	}
}
