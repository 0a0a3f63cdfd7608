// Package field implements the reactive state machine for a single scalar
// input. A Field owns one state.Field tuple and moves it through the update,
// validate, reset, set-error and new-default transitions, notifying
// subscribers after each one.
//
// Fields can be linked to another observable value (usually another field);
// when the linked value changes the field re-validates even if the user never
// touched it, which is how cross-field rules such as "expensive items must
// cost more than 1000" stay current.
package field
