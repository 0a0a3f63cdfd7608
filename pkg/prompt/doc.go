// Package prompt drives a form from the terminal. A Session asks for every
// entry through a Driver, feeds the answers to the field handlers exactly as
// a UI would (change, then blur) and asks again while the entry reports a
// validation error. The survey-backed driver is the default; tests use a
// scripted one.
package prompt
