package form

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-formstate/pkg/remote"
	"github.com/goliatone/go-formstate/pkg/state"
)

var (
	// ErrUnsupportedMember is returned by New for members that are not a
	// Leaf, Group or Collection.
	ErrUnsupportedMember = errors.New("form: unsupported member")
	// ErrSubmitInProgress is returned by Submit while another submission is
	// pending.
	ErrSubmitInProgress = errors.New("form: submit in progress")
	// ErrNoSubmitter is returned by Submit when the form has no submitter.
	ErrNoSubmitter = errors.New("form: no submitter")
)

// Leaf is a single input. *field.Field[V] implements it.
type Leaf interface {
	state.Node
	remote.Target
	AnyValue() any
	Dirty() bool
	Reset()
	Subscribe(fn func()) (unsubscribe func())
}

// Collection is a list of records of leaf inputs. *list.List[Item]
// implements it.
type Collection interface {
	state.Node
	remote.Container
	Dirty() bool
	Reset()
	Values() []map[string]any
	Subscribe(fn func()) (unsubscribe func())
}

// Group is a named mapping of leaves, such as the attributes of a nested
// object.
type Group map[string]Leaf

// Kind reports state.KindGroup.
func (g Group) Kind() state.Kind {
	return state.KindGroup
}

// Dirty reports whether any leaf of the group is dirty.
func (g Group) Dirty() bool {
	for _, leaf := range g {
		if leaf.Dirty() {
			return true
		}
	}
	return false
}

// Reset resets every leaf of the group.
func (g Group) Reset() {
	for _, key := range g.keys() {
		g[key].Reset()
	}
}

// Values projects the group onto its leaf values.
func (g Group) Values() map[string]any {
	out := make(map[string]any, len(g))
	for key, leaf := range g {
		out[key] = leaf.AnyValue()
	}
	return out
}

// Child resolves a key segment to a leaf.
func (g Group) Child(segment remote.Segment) (any, bool) {
	name, ok := segment.Name()
	if !ok {
		return nil, false
	}
	leaf, ok := g[name]
	return leaf, ok && leaf != nil
}

func (g Group) keys() []string {
	keys := make([]string, 0, len(g))
	for key := range g {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Fields is the member bag of a form.
type Fields map[string]state.Node

// Values is the plain value tree handed to the submitter: leaves map to their
// value, groups to map[string]any and lists to []map[string]any.
type Values map[string]any

// Submitter is the submit collaborator. It returns the errors reported by
// the server (empty on success) or a transport error.
type Submitter interface {
	Submit(ctx context.Context, values Values) ([]remote.Error, error)
}

// SubmitFunc adapts a function to Submitter.
type SubmitFunc func(ctx context.Context, values Values) ([]remote.Error, error)

// Submit calls fn.
func (fn SubmitFunc) Submit(ctx context.Context, values Values) ([]remote.Error, error) {
	return fn(ctx, values)
}

func checkMember(key string, node state.Node) error {
	if node == nil {
		return fmt.Errorf("%w: %q is nil", ErrUnsupportedMember, key)
	}

	switch node.Kind() {
	case state.KindField:
		if _, ok := node.(Leaf); ok {
			return nil
		}
	case state.KindGroup:
		if group, ok := node.(Group); ok {
			for name, leaf := range group {
				if leaf == nil {
					return fmt.Errorf("%w: %q.%q is nil", ErrUnsupportedMember, key, name)
				}
			}
			return nil
		}
	case state.KindList:
		if _, ok := node.(Collection); ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (%T, kind %s)", ErrUnsupportedMember, key, node, node.Kind())
}
