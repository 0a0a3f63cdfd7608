// Package form aggregates fields, groups and lists into a form: it derives
// the form-level dirty flag, resets every member, extracts a plain value tree
// for submission and routes the errors returned by the submit collaborator
// back onto the members.
package form
