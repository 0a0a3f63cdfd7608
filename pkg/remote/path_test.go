package remote_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/remote"
)

func TestParsePath(t *testing.T) {
	want := remote.PathOf("variants", 1, "price")

	cases := []string{
		"variants.1.price",
		"variants[1].price",
		"/variants/1/price",
		"#/variants/1/price",
		"$.variants[1].price",
		" variants.1.price ",
	}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			if diff := cmp.Diff(want, remote.ParsePath(raw)); diff != "" {
				t.Fatalf("path mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := remote.ParsePath("  "); got != nil {
		t.Fatalf("expected nil path for blank input, got %v", got)
	}

	escaped := remote.ParsePath("/owner/phone~1number")
	if diff := cmp.Diff(remote.PathOf("owner", "phone/number"), escaped); diff != "" {
		t.Fatalf("escaped pointer mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentAccessors(t *testing.T) {
	key := remote.Key("title")
	if name, ok := key.Name(); !ok || name != "title" {
		t.Fatalf("unexpected key name %q %v", name, ok)
	}
	if _, ok := key.Position(); ok {
		t.Fatalf("key segment must not report a position")
	}

	index := remote.Index(2)
	if position, ok := index.Position(); !ok || position != 2 {
		t.Fatalf("unexpected position %d %v", position, ok)
	}
	if !index.IsIndex() || key.IsIndex() {
		t.Fatalf("IsIndex mismatch")
	}

	if got := remote.PathOf("variants", 0, "value").String(); got != "variants.0.value" {
		t.Fatalf("unexpected path string %q", got)
	}
}

func TestErrorJSON(t *testing.T) {
	payload := `[
		{"fieldPath": ["variants", 1, "price"], "message": "Invalid price"},
		{"message": "No cars allowed"}
	]`

	var errs []remote.Error
	if err := json.Unmarshal([]byte(payload), &errs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []remote.Error{
		remote.At("Invalid price", "variants", 1, "price"),
		remote.FormLevel("No cars allowed"),
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("decoded errors mismatch (-want +got):\n%s", diff)
	}

	encoded, err := json.Marshal(errs[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(encoded); got != `{"fieldPath":["variants",1,"price"],"message":"Invalid price"}` {
		t.Fatalf("unexpected encoding %s", got)
	}

	var bad remote.Segment
	if err := json.Unmarshal([]byte(`true`), &bad); err == nil {
		t.Fatalf("expected error for boolean segment")
	}
}

func TestSegment_AsIndex(t *testing.T) {
	tests := []struct {
		segment remote.Segment
		want    int
		ok      bool
	}{
		{segment: remote.Index(2), want: 2, ok: true},
		{segment: remote.Key("1"), want: 1, ok: true},
		{segment: remote.Key("007"), want: 7, ok: true},
		{segment: remote.Key("-1"), ok: false},
		{segment: remote.Key("+1"), ok: false},
		{segment: remote.Key("price"), ok: false},
		{segment: remote.Key(""), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.segment.String(), func(t *testing.T) {
			got, ok := tt.segment.AsIndex()
			if ok != tt.ok || (ok && got != tt.want) {
				t.Fatalf("AsIndex() = %d, %v; want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
