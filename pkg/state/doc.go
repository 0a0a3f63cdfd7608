// Package state holds the plain data model shared by the form engine: the
// per-input Field tuple (value, default, error, touched, dirty), the Record
// view of a list item, and the Kind tags used to discriminate form members.
//
// Transitions on Field are value-returning and side-effect free; the reactive
// wrappers in pkg/field and pkg/list apply them atomically and notify
// subscribers.
package state
