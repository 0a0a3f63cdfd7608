// Package validation is the engine that turns heterogeneous validator
// declarations into an ordered chain and runs it against a value.
//
// A declaration can be a single Validator, a slice of validators, or a Rules
// value carrying both the validators and a linked value:
//
//	cfg, err := validation.Normalize[string](validation.Rules[string]{
//		Using: validation.NotEmpty("Price is required"),
//		With:  title.Value(),
//	})
//
// Run executes every validator in declared order and reports the first
// message; later validators still run but their messages are discarded, so
// the first declared failure is the one users see.
package validation
