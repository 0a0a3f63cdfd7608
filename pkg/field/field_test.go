package field_test

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/validation"
)

const expensiveMessage = "Expensive items must cost more than 1000 dollars"

func expensivePrice(price string, ctx validation.Context) string {
	title, _ := validation.LinkedAs[string](ctx)
	amount, _ := strconv.ParseFloat(price, 64)
	if strings.Contains(strings.ToLower(title), "expensive") && !(amount > 1000) {
		return expensiveMessage
	}
	return ""
}

func TestField_UpdateInvariant(t *testing.T) {
	f := field.MustNew("Widget")

	f.Update("Widgets")
	if got := f.State(); !got.Touched || !got.Dirty {
		t.Fatalf("expected touched and dirty, got %+v", got)
	}

	f.Update("Widget")
	if f.Dirty() {
		t.Fatalf("returning to the default must clear dirty")
	}
}

func TestField_ResetInvariant(t *testing.T) {
	f := field.MustNew("Widget", field.Validates[string](validation.NotEmpty("required")))
	f.Update("")
	f.Validate()
	if f.Error() != "required" {
		t.Fatalf("expected validation error before reset, got %q", f.Error())
	}

	f.Reset()

	want := state.Field[string]{Value: "Widget", DefaultValue: "Widget"}
	if diff := cmp.Diff(want, f.State()); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestField_ValidateSkipsPristineFields(t *testing.T) {
	f := field.MustNew("", field.Validates[string](validation.NotEmpty("required")))

	f.OnBlur()
	if f.Error() != "" {
		t.Fatalf("pristine field must not show an error, got %q", f.Error())
	}

	f.SetError("server says no")
	f.Validate()
	if f.Error() != "required" {
		t.Fatalf("untouched field with an existing error must re-validate, got %q", f.Error())
	}
}

func TestField_ValidateFirstErrorWins(t *testing.T) {
	f := field.MustNew("abc", field.Validates[string]([]validation.Validator[string]{
		validation.NotEmpty("required"),
		validation.LengthMoreThan(3, "too short"),
	}))

	f.Update("")
	f.Validate()
	if f.Error() != "required" {
		t.Fatalf("expected first declared failure, got %q", f.Error())
	}

	f.Update("abcd")
	f.Validate()
	if f.Error() != "" {
		t.Fatalf("expected error to clear, got %q", f.Error())
	}
}

func TestField_OnChangeAcceptsEvents(t *testing.T) {
	f := field.MustNew("a")

	if err := f.OnChange(field.ChangeEvent{Target: field.EventTarget{Value: "b"}}); err != nil {
		t.Fatalf("on change with event: %v", err)
	}
	if f.Value() != "b" {
		t.Fatalf("expected value from event target, got %q", f.Value())
	}

	if err := f.OnChange("c"); err != nil {
		t.Fatalf("on change with raw value: %v", err)
	}
	if f.Value() != "c" {
		t.Fatalf("expected raw value, got %q", f.Value())
	}

	err := f.OnChange(42)
	if !errors.Is(err, field.ErrUnsupportedInput) {
		t.Fatalf("expected ErrUnsupportedInput, got %v", err)
	}
	if f.Value() != "c" {
		t.Fatalf("rejected input must not change the value")
	}
}

func TestField_ValidateDropsResultForChangedValue(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f := field.MustNew("", field.Validates[string](func(value string, _ validation.Context) string {
		if value == "bad" {
			once.Do(func() { close(entered) })
			<-release
			return "bad value"
		}
		return ""
	}))

	f.Update("bad")
	done := make(chan struct{})
	go func() {
		f.Validate()
		close(done)
	}()
	<-entered

	f.Update("good")
	f.Validate()
	close(release)
	<-done

	if f.Value() != "good" || f.Error() != "" {
		t.Fatalf("stale validation leaked: value=%q error=%q", f.Value(), f.Error())
	}
}

func TestField_NewDefaultValueAndSource(t *testing.T) {
	f := field.MustNew("first")
	f.Update("edited")
	f.SetError("oops")

	f.SetSource("first")
	if f.Value() != "edited" {
		t.Fatalf("same source value must not re-default")
	}

	f.SetSource("second")
	want := state.Field[string]{Value: "second", DefaultValue: "second"}
	if diff := cmp.Diff(want, f.State()); diff != "" {
		t.Fatalf("source change mismatch (-want +got):\n%s", diff)
	}
}

func TestField_LinkedRevalidation(t *testing.T) {
	title := field.MustNew("Plain Item", field.WithName[string]("title"))
	price := field.MustNew("500",
		field.WithName[string]("price"),
		field.Validates[string](expensivePrice),
		field.Linked[string](title),
	)
	defer price.Close()

	if price.Error() != "" {
		t.Fatalf("no error expected before the title changes, got %q", price.Error())
	}

	title.Update("Expensive Widget")

	if price.Touched() {
		t.Fatalf("price must stay untouched")
	}
	if price.Error() != expensiveMessage {
		t.Fatalf("expected linked revalidation error, got %q", price.Error())
	}
	if price.Linked() != "Expensive Widget" {
		t.Fatalf("linked value not refreshed: %v", price.Linked())
	}

	price.Update("1500")
	price.Validate()
	if price.Error() != "" {
		t.Fatalf("expected price 1500 to pass, got %q", price.Error())
	}

	price.Update("500")
	price.Validate()
	if price.Error() != expensiveMessage {
		t.Fatalf("expected price 500 to fail, got %q", price.Error())
	}
}

func TestField_LinkedIgnoresUnchangedValue(t *testing.T) {
	title := field.MustNew("Plain")
	runs := 0
	price := field.MustNew("1", field.Validates[string](func(string, validation.Context) string {
		runs++
		return ""
	}), field.Linked[string](title))

	title.SetError("unrelated")
	if runs != 0 {
		t.Fatalf("validation should only rerun when the linked value changes, ran %d times", runs)
	}

	title.Update("Other")
	if runs != 1 {
		t.Fatalf("expected one run after linked change, got %d", runs)
	}

	price.Close()
	title.Update("Again")
	if runs != 1 {
		t.Fatalf("closed field must not follow its link, got %d runs", runs)
	}
}

func TestField_StaticLinkedValue(t *testing.T) {
	price := field.MustNew("500", field.Validates[string](validation.Rules[string]{
		Using: expensivePrice,
		With:  "Expensive Widget",
	}))

	price.Update("400")
	price.Validate()
	if price.Error() != expensiveMessage {
		t.Fatalf("expected static linked value to apply, got %q", price.Error())
	}
}

func TestField_InvalidDeclaration(t *testing.T) {
	_, err := field.New("x", field.Validates[string](123))
	if !errors.Is(err, validation.ErrUnsupportedDeclaration) {
		t.Fatalf("expected ErrUnsupportedDeclaration, got %v", err)
	}
}

func TestField_SubscribeAndProps(t *testing.T) {
	f := field.MustNew("a", field.WithValidators(validation.NotEmpty("required")))
	calls := 0
	unsubscribe := f.Subscribe(func() { calls++ })

	props := f.Props()
	if err := props.OnChange(""); err != nil {
		t.Fatalf("props on change: %v", err)
	}
	props.OnBlur()
	if f.Error() != "required" {
		t.Fatalf("expected error through props handlers, got %q", f.Error())
	}
	props.Reset()

	if calls != 3 {
		t.Fatalf("expected 3 notifications, got %d", calls)
	}

	unsubscribe()
	f.Update("b")
	if calls != 3 {
		t.Fatalf("unsubscribed listener was called")
	}

	if f.Kind() != state.KindField {
		t.Fatalf("unexpected kind %v", f.Kind())
	}
}

func TestExtract(t *testing.T) {
	got, err := field.Extract[any](nil)
	if err != nil || got != nil {
		t.Fatalf("nil should be accepted for interface types, got %v %v", got, err)
	}

	anyValue, err := field.Extract[any](field.ChangeEvent{Target: field.EventTarget{Value: "x"}})
	if err != nil || anyValue != "x" {
		t.Fatalf("events must be unwrapped for Field[any], got %v %v", anyValue, err)
	}

	if _, err := field.Extract[string](nil); !errors.Is(err, field.ErrUnsupportedInput) {
		t.Fatalf("nil for a concrete type should fail, got %v", err)
	}
}
