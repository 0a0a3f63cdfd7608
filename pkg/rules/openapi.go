package rules

import (
	"context"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// FromOpenAPI derives chains from the component schema named component in
// the OpenAPI document data. Required properties get a presence check; every
// property gets a schema check reporting the kin-openapi reason. Properties
// of array items are addressed as "list.property".
func FromOpenAPI(ctx context.Context, data []byte, component string) (*Set, error) {
	schema, err := loadComponent(ctx, data, component)
	if err != nil {
		return nil, err
	}

	set := NewSet()
	collectSchema(set, "", schema)
	return set, nil
}

func loadComponent(ctx context.Context, data []byte, component string) (*openapi3.Schema, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("rules: load openapi document: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("rules: openapi document has no components")
	}

	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("rules: openapi component %q not found", component)
	}
	return ref.Value, nil
}

func collectSchema(set *Set, prefix string, schema *openapi3.Schema) {
	if schema == nil {
		return
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		path := joinPath(prefix, name)
		property := ref.Value

		if _, ok := required[name]; ok {
			set.Add(path, present(name+" is required"))
		}

		switch {
		case isType(property, openapi3.TypeObject):
			collectSchema(set, path, property)
		case isType(property, openapi3.TypeArray) && property.Items != nil && property.Items.Value != nil && isType(property.Items.Value, openapi3.TypeObject):
			collectSchema(set, path, property.Items.Value)
		default:
			set.Add(path, validation.Schema[any](property, nil))
		}
	}
}

func present(message string) validation.Validator[any] {
	return func(value any, _ validation.Context) string {
		if value == nil {
			return message
		}
		if text, ok := value.(string); ok && text == "" {
			return message
		}
		return ""
	}
}

func isType(schema *openapi3.Schema, typ string) bool {
	if schema.Type == nil {
		return false
	}
	for _, candidate := range schema.Type.Slice() {
		if candidate == typ {
			return true
		}
	}
	return false
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
