// Package source holds the records a form is edited against, such as a
// product fetched from an API. A Source is a reactive cell: fields and lists
// bound to it are re-defaulted whenever the picked value changes identity.
package source
