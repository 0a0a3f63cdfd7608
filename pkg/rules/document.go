package rules

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/remote"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Document checks whole value trees against an OpenAPI component schema and
// reports every violation as a path-addressed error.
type Document struct {
	component string
	schema    *openapi3.Schema
}

// DocumentFromOpenAPI loads the component schema named component.
func DocumentFromOpenAPI(ctx context.Context, data []byte, component string) (*Document, error) {
	schema, err := loadComponent(ctx, data, component)
	if err != nil {
		return nil, err
	}
	return &Document{component: component, schema: schema}, nil
}

// Component returns the schema name the document was loaded from.
func (d *Document) Component() string {
	if d == nil {
		return ""
	}
	return d.component
}

// Check validates values and returns one error per violation. Violations
// without a location are form-level.
func (d *Document) Check(values any) []remote.Error {
	if d == nil || d.schema == nil {
		return nil
	}
	err := d.schema.VisitJSON(validation.JSONValue(values), openapi3.MultiErrors())
	return issuesFromError(err, nil)
}

func issuesFromError(err error, out []remote.Error) []remote.Error {
	if err == nil {
		return out
	}

	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			out = issuesFromError(inner, out)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		message := strings.TrimSpace(schemaErr.Reason)
		if message == "" {
			message = strings.TrimSpace(schemaErr.Error())
		}
		return append(out, remote.Error{
			FieldPath: pathFromPointer(schemaErr.JSONPointer()),
			Message:   message,
		})
	}

	return append(out, remote.FormLevel(strings.TrimSpace(err.Error())))
}

func pathFromPointer(pointer []string) remote.Path {
	if len(pointer) == 0 {
		return nil
	}
	out := make(remote.Path, 0, len(pointer))
	for _, part := range pointer {
		if part == "" {
			continue
		}
		if index, err := strconv.Atoi(part); err == nil && index >= 0 {
			out = append(out, remote.Index(index))
			continue
		}
		out = append(out, remote.Key(part))
	}
	return out
}
