// Package list holds the state of a list of records, each record being a set
// of attribute cells with their own value, default, dirty, touched and error.
//
// Items are decomposed into attributes when the list is (re)initialized:
// structs by exported field and maps with string keys by key. Validators for
// an attribute see the current record and every other record of the list
// (its siblings), which is how uniqueness rules are expressed.
//
// Records carry an identity that survives index shifts. Handlers returned by
// Fields are bound to that identity, so a handler kept across a
// reinitialization fails with ErrStaleRecord instead of editing whatever
// record now sits at its old index.
package list
