package form

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formstate/internal/notify"
	"github.com/goliatone/go-formstate/pkg/observability"
	"github.com/goliatone/go-formstate/pkg/remote"
	"github.com/goliatone/go-formstate/pkg/state"
)

// Form orchestrates a bag of members. It subscribes to every member so its
// own subscribers hear about any change; the aggregate flags are computed on
// demand and never cached.
type Form struct {
	name      string
	fields    Fields
	keys      []string
	submitter Submitter
	observer  observability.Observer

	mu           sync.Mutex
	submitting   bool
	remoteErrors []remote.Error
	formErrors   []string
	unsubscribe  []func()
	hub          notify.Hub
}

// New validates the member bag and wires the form to it. submitter may be
// nil, in which case Submit fails with ErrNoSubmitter.
func New(fields Fields, submitter Submitter, opts ...Option) (*Form, error) {
	f := &Form{
		fields:    make(Fields, len(fields)),
		keys:      make([]string, 0, len(fields)),
		submitter: submitter,
		observer:  observability.NoOpObserver{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	for key, node := range fields {
		if err := checkMember(key, node); err != nil {
			return nil, err
		}
		f.fields[key] = node
		f.keys = append(f.keys, key)
	}
	sort.Strings(f.keys)

	for _, key := range f.keys {
		f.watch(f.fields[key])
	}
	return f, nil
}

// MustNew is New for member bags known to be valid; it panics on error.
func MustNew(fields Fields, submitter Submitter, opts ...Option) *Form {
	f, err := New(fields, submitter, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Form) watch(node state.Node) {
	switch member := node.(type) {
	case Group:
		for _, key := range member.keys() {
			f.unsubscribe = append(f.unsubscribe, member[key].Subscribe(f.hub.Notify))
		}
	case Leaf:
		f.unsubscribe = append(f.unsubscribe, member.Subscribe(f.hub.Notify))
	case Collection:
		f.unsubscribe = append(f.unsubscribe, member.Subscribe(f.hub.Notify))
	}
}

// Name returns the label given with WithName.
func (f *Form) Name() string {
	return f.name
}

// Fields returns the member bag.
func (f *Form) Fields() Fields {
	out := make(Fields, len(f.fields))
	for key, node := range f.fields {
		out[key] = node
	}
	return out
}

// Dirty reports whether any reachable leaf is dirty.
func (f *Form) Dirty() bool {
	for _, key := range f.keys {
		switch member := f.fields[key].(type) {
		case Group:
			if member.Dirty() {
				return true
			}
		case Leaf:
			if member.Dirty() {
				return true
			}
		case Collection:
			if member.Dirty() {
				return true
			}
		}
	}
	return false
}

// Reset clears the remote and form-level errors, then resets every reachable
// leaf.
func (f *Form) Reset() {
	f.mu.Lock()
	f.remoteErrors = nil
	f.formErrors = nil
	f.mu.Unlock()

	for _, key := range f.keys {
		switch member := f.fields[key].(type) {
		case Group:
			member.Reset()
		case Leaf:
			member.Reset()
		case Collection:
			member.Reset()
		}
	}

	f.emit(context.Background(), observability.EventFormReset, observability.LevelInfo, nil)
	f.hub.Notify()
}

// Values extracts the plain value tree.
func (f *Form) Values() Values {
	out := make(Values, len(f.fields))
	for _, key := range f.keys {
		switch member := f.fields[key].(type) {
		case Group:
			out[key] = member.Values()
		case Leaf:
			out[key] = member.AnyValue()
		case Collection:
			out[key] = member.Values()
		}
	}
	return out
}

// Child resolves a key segment to a member, for remote error reconciliation.
func (f *Form) Child(segment remote.Segment) (any, bool) {
	name, ok := segment.Name()
	if !ok {
		return nil, false
	}
	node, ok := f.fields[name]
	return node, ok
}

// Submitting reports whether a submission is pending.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// RemoteErrors returns the errors stored by the last submission.
func (f *Form) RemoteErrors() []remote.Error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remote.Error(nil), f.remoteErrors...)
}

// FormErrors returns the messages of path-less errors and of errors whose
// path did not resolve to a member.
func (f *Form) FormErrors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.formErrors...)
}

// Submit sends the current values to the submitter. While a submission is
// pending, further calls fail with ErrSubmitInProgress. No lock is held while
// the submitter runs, so members stay editable; edits made meanwhile go into
// the next submission.
//
// A non-empty error list replaces the stored one and is applied to the
// members; an empty list clears it. A transport error is returned wrapped and
// leaves the stored errors untouched.
func (f *Form) Submit(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	f.mu.Lock()
	if f.submitter == nil {
		f.mu.Unlock()
		return ErrNoSubmitter
	}
	if f.submitting {
		f.mu.Unlock()
		f.emit(ctx, observability.EventFormSubmitRejected, observability.LevelWarning, nil)
		return ErrSubmitInProgress
	}
	f.submitting = true
	f.mu.Unlock()
	f.hub.Notify()

	values := f.Values()
	f.emit(ctx, observability.EventFormSubmitStart, observability.LevelInfo, nil)

	errs, err := f.submitter.Submit(ctx, values)

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	if err != nil {
		f.emit(ctx, observability.EventFormSubmitFailed, observability.LevelError, map[string]any{"error": err.Error()})
		f.hub.Notify()
		return fmt.Errorf("form: submit: %w", err)
	}

	f.apply(ctx, errs)
	f.emit(ctx, observability.EventFormSubmitComplete, observability.LevelInfo, map[string]any{"errors": len(errs)})
	f.hub.Notify()
	return nil
}

// SetRemoteErrors stores errs as if a submission had returned them and
// applies them to the members.
func (f *Form) SetRemoteErrors(errs []remote.Error) {
	f.apply(context.Background(), errs)
	f.hub.Notify()
}

func (f *Form) apply(ctx context.Context, errs []remote.Error) {
	if len(errs) == 0 {
		f.mu.Lock()
		f.remoteErrors = nil
		f.formErrors = nil
		f.mu.Unlock()
		return
	}

	stored := append([]remote.Error(nil), errs...)
	report := remote.Reconcile(f, stored)

	f.mu.Lock()
	f.remoteErrors = stored
	f.formErrors = report.FormMessages()
	f.mu.Unlock()

	for _, unresolved := range report.Unresolved {
		f.emit(ctx, observability.EventFormRemoteUnresolved, observability.LevelWarning, map[string]any{
			"path":    unresolved.FieldPath.String(),
			"message": unresolved.Message,
		})
	}
}

// Subscribe registers fn to run after any member or form transition.
func (f *Form) Subscribe(fn func()) func() {
	return f.hub.Subscribe(fn)
}

// Close drops the form's subscriptions to its members.
func (f *Form) Close() {
	f.mu.Lock()
	unsubscribe := f.unsubscribe
	f.unsubscribe = nil
	f.mu.Unlock()

	for _, fn := range unsubscribe {
		fn()
	}
}

func (f *Form) emit(ctx context.Context, eventType observability.EventType, level observability.Level, data map[string]any) {
	observability.Emit(ctx, f.observer, eventType, level, f.name, data)
}
