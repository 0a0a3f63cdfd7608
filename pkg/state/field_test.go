package state_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/state"
)

func TestField_UpdateTracksDirtyAgainstDefault(t *testing.T) {
	f := state.New("Widget")

	f = f.Update("Widgets")
	if !f.Touched || !f.Dirty {
		t.Fatalf("expected touched and dirty after edit, got %+v", f)
	}

	f = f.Update("Widget")
	if f.Dirty {
		t.Fatalf("expected dirty=false once value matches default, got %+v", f)
	}
	if !f.Touched {
		t.Fatalf("touched must stay true after returning to the default")
	}
}

func TestField_ResetRestoresPristineState(t *testing.T) {
	f := state.New("Widget").Update("Gadget").WithError("bad")

	got := f.Reset()
	want := state.Field[string]{Value: "Widget", DefaultValue: "Widget"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestField_WithDefaultReplacesWholesale(t *testing.T) {
	f := state.New("a").Update("b").WithError("oops")

	got := f.WithDefault("c")
	want := state.Field[string]{Value: "c", DefaultValue: "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("new default mismatch (-want +got):\n%s", diff)
	}
}

func TestField_WithErrorKeepsValue(t *testing.T) {
	f := state.New(3).Update(4).WithError("too big")
	if f.Value != 4 || f.Error != "too big" || !f.HasError() {
		t.Fatalf("unexpected state %+v", f)
	}
	if f.WithError("").HasError() {
		t.Fatalf("empty message should clear the error")
	}
}

func TestField_Any(t *testing.T) {
	got := state.New("x").Update("y").Any()
	want := state.Field[any]{Value: "y", DefaultValue: "x", Touched: true, Dirty: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("erased state mismatch (-want +got):\n%s", diff)
	}
}

func TestEqual(t *testing.T) {
	shared := []string{"a"}
	other := []string{"a"}
	m := map[string]int{"a": 1}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "equal strings", a: "x", b: "x", want: true},
		{name: "different strings", a: "x", b: "y", want: false},
		{name: "different types", a: 1, b: "1", want: false},
		{name: "both nil", a: nil, b: nil, want: true},
		{name: "one nil", a: nil, b: "", want: false},
		{name: "same slice", a: shared, b: shared, want: true},
		{name: "same contents different slice", a: shared, b: other, want: false},
		{name: "same map", a: m, b: m, want: true},
		{name: "distinct maps", a: m, b: map[string]int{"a": 1}, want: false},
		{name: "interface field holding slice", a: struct{ V any }{V: shared}, b: struct{ V any }{V: shared}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := state.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRecord(t *testing.T) {
	r := state.Record{
		"option": state.New[any]("color"),
		"value":  state.New[any]("red").Update("blue"),
	}

	if got := r.Value("option"); got != "color" {
		t.Fatalf("Value(option) = %v", got)
	}
	if r.Value("missing") != nil {
		t.Fatalf("missing attribute should be nil")
	}
	if !r.Dirty() {
		t.Fatalf("record with a dirty attribute should be dirty")
	}
	if diff := cmp.Diff([]string{"option", "value"}, r.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"option": "color", "value": "blue"}, r.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	clone := r.Clone()
	clone["option"] = state.New[any]("size")
	if r.Value("option") != "color" {
		t.Fatalf("clone must not alias the original")
	}
}

func TestKindString(t *testing.T) {
	if state.KindField.String() != "field" || state.KindGroup.String() != "group" || state.KindList.String() != "list" {
		t.Fatalf("unexpected kind names")
	}
	if state.Kind(0).String() != "unknown" {
		t.Fatalf("zero kind should be unknown")
	}
}
