package rules_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/validation"
)

const productRules = `
fields:
  title:
    - rule: notEmpty
      message: Title is required
    - rule: lengthMoreThan
      length: 3
      message: Title must be more than 3 characters
  variants[].price:
    - rule: notEmpty
      message: Price is required
    - rule: numeric
      message: Price must be a number
  variants.value:
    - rule: unique
      scope: option
      message: Value must be unique!
`

func run(set *rules.Set, path string, value any, ctx validation.Context) string {
	return validation.Run(value, ctx, validation.Config[any]{Using: set.Validators(path)})
}

func TestParse_YAML(t *testing.T) {
	set, err := rules.Parse([]byte(productRules), "product.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff([]string{"title", "variants.price", "variants.value"}, set.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	cases := []struct {
		path  string
		value any
		want  string
	}{
		{"title", "", "Title is required"},
		{"title", "abc", "Title must be more than 3 characters"},
		{"title", "abcd", ""},
		{"variants.3.price", "", "Price is required"},
		{"variants[1].price", "12a", "Price must be a number"},
		{"/variants/0/price", "12.50", ""},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			if got := run(set, tc.path, tc.value, validation.Context{}); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}

	if source, ok := set.Source("variants.price"); !ok || source != "product.yaml" {
		t.Fatalf("unexpected source %q %v", source, ok)
	}
}

func TestParse_UniqueDefaultsToLastSegment(t *testing.T) {
	set, err := rules.Parse([]byte(productRules), "product.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	item := state.Record{
		"option": state.New[any]("color"),
		"value":  state.New[any]("red"),
	}
	siblings := []state.Record{{
		"option": state.New[any]("color"),
		"value":  state.New[any]("red"),
	}}

	got := run(set, "variants.value", "red", validation.Context{ListItem: item, Siblings: siblings})
	if got != "Value must be unique!" {
		t.Fatalf("expected uniqueness failure, got %q", got)
	}
}

func TestParse_JSONAndTypedChain(t *testing.T) {
	set, err := rules.Parse([]byte(`{"fields": {"description": [{"rule": "noMarkup", "message": "No markup"}]}}`), "inline.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	chain := rules.Chain[string](set, "description")
	cfg := validation.Config[string]{Using: chain}
	if got := validation.Run("<b>bold</b>", validation.Context{}, cfg); got != "No markup" {
		t.Fatalf("expected markup failure, got %q", got)
	}
	if got := validation.Run("plain", validation.Context{}, cfg); got != "" {
		t.Fatalf("expected plain text to pass, got %q", got)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":        "   ",
		"unknown rule": "fields:\n  title:\n    - rule: shout\n",
		"no pattern":   "fields:\n  title:\n    - rule: matches\n",
		"empty path":   "fields:\n  \"[0]\":\n    - rule: numeric\n",
		"duplicate":    "fields:\n  variants.price:\n    - rule: numeric\n  variants[0].price:\n    - rule: numeric\n",
		"invalid":      "fields: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := rules.Parse([]byte(doc), name+".yaml"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	_, err := rules.Build("title", rules.Rule{Rule: "shout"})
	if !errors.Is(err, rules.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"rules/title.yaml":    {Data: []byte("fields:\n  title:\n    - rule: notEmpty\n      message: Title is required\n")},
		"rules/variants.json": {Data: []byte(`{"fields": {"variants.price": [{"rule": "numeric", "message": "Price must be a number"}]}}`)},
		"rules/README.md":     {Data: []byte("ignored")},
		"rules/nested/x.yml":  {Data: []byte("fields:\n  description:\n    - rule: lengthLessThan\n      length: 5\n")},
	}

	set, err := rules.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"description", "title", "variants.price"}, set.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if got := run(set, "description", "too long", validation.Context{}); got != "invalid value" {
		t.Fatalf("expected default message, got %q", got)
	}

	fsys["rules/other.yaml"] = &fstest.MapFile{Data: []byte("fields:\n  title:\n    - rule: numeric\n")}
	if _, err := rules.LoadFS(fsys); err == nil {
		t.Fatalf("expected duplicate path error across files")
	}

	empty, err := rules.LoadFS(nil)
	if err != nil || !empty.Empty() {
		t.Fatalf("nil filesystem must yield an empty set, got %v %v", empty, err)
	}
}

const productOpenAPI = `
openapi: 3.0.3
info:
  title: Catalog
  version: "1.0"
paths: {}
components:
  schemas:
    Product:
      type: object
      required: [title]
      properties:
        title:
          type: string
          minLength: 4
        variants:
          type: array
          items:
            type: object
            required: [price]
            properties:
              price:
                type: string
                pattern: "^[0-9.,]+$"
`

func TestFromOpenAPI(t *testing.T) {
	set, err := rules.FromOpenAPI(context.Background(), []byte(productOpenAPI), "Product")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}

	if diff := cmp.Diff([]string{"title", "variants.price"}, set.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	if got := run(set, "title", "", validation.Context{}); got != "title is required" {
		t.Fatalf("expected presence failure, got %q", got)
	}
	if got := run(set, "title", "abc", validation.Context{}); got == "" {
		t.Fatalf("expected minLength failure")
	}
	if got := run(set, "title", "abcd", validation.Context{}); got != "" {
		t.Fatalf("expected pass, got %q", got)
	}
	if got := run(set, "variants.1.price", "12a", validation.Context{}); got == "" {
		t.Fatalf("expected pattern failure")
	}

	if _, err := rules.FromOpenAPI(context.Background(), []byte(productOpenAPI), "Missing"); err == nil {
		t.Fatalf("expected error for unknown component")
	}
}
