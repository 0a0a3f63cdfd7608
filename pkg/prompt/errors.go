package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoEntries is returned by NewSession for an empty entry list.
	ErrNoEntries = errors.New("prompt: no entries")
)
