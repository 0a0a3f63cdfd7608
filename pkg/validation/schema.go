package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Schema validates values against an OpenAPI schema using kin-openapi. When
// content is nil or empty the schema error reason is used as the message.
func Schema[V any](schema *openapi3.Schema, content any) Validator[V] {
	return func(value V, _ Context) string {
		if schema == nil {
			return ""
		}
		err := schema.VisitJSON(JSONValue(value))
		if err == nil {
			return ""
		}
		if text, ok := content.(string); content == nil || (ok && text == "") {
			return schemaReason(err)
		}
		return message(content, value)
	}
}

func schemaReason(err error) string {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) && strings.TrimSpace(schemaErr.Reason) != "" {
		return strings.TrimSpace(schemaErr.Reason)
	}
	return strings.TrimSpace(err.Error())
}

// JSONValue converts Go values into the shapes VisitJSON understands
// (float64 numbers, []any, map[string]any).
func JSONValue(value any) any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = JSONValue(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return value
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = JSONValue(iter.Value().Interface())
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return JSONValue(rv.Elem().Interface())
	default:
		return value
	}
}
