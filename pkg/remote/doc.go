// Package remote maps path-addressed errors returned by a submit collaborator
// back onto the fields of a form.
//
// A path is an ordered list of segments, each a key or a list index. The
// reconciler walks a path through Container values and calls SetError on the
// Target it reaches. Errors without a path are form-level; errors whose path
// cannot be resolved are reported rather than dropped.
package remote
