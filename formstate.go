// Package formstate is the entry point of the form-state engine. It re-exports
// the constructors most callers need; the full API lives in the pkg/
// packages.
package formstate

import (
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/list"
	"github.com/goliatone/go-formstate/pkg/remote"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Fields is the member bag of a form.
type Fields = form.Fields

// Group is a named mapping of leaves inside a form.
type Group = form.Group

// Values is the plain value tree handed to a submitter.
type Values = form.Values

// SubmitFunc adapts a function to form.Submitter.
type SubmitFunc = form.SubmitFunc

// RemoteError is a path-addressed error returned by a submitter.
type RemoteError = remote.Error

// ValidationContext is the cross-field context handed to validators.
type ValidationContext = validation.Context

// NewField creates a field whose value and default are value.
func NewField[V any](value V, opts ...field.Option[V]) (*field.Field[V], error) {
	return field.New(value, opts...)
}

// NewList creates a list field initialized from items.
func NewList[Item any](items []Item, opts ...list.Option) (*list.List[Item], error) {
	return list.New(items, opts...)
}

// NewForm aggregates fields into a form submitting through submitter.
func NewForm(fields Fields, submitter form.Submitter, opts ...form.Option) (*form.Form, error) {
	return form.New(fields, submitter, opts...)
}
