package remote

import "strings"

// Error is one error returned by the submit collaborator. An empty FieldPath
// makes it a form-level error.
type Error struct {
	FieldPath Path   `json:"fieldPath,omitempty" yaml:"fieldPath,omitempty"`
	Message   string `json:"message" yaml:"message"`
}

// At returns an error addressed to the path built from parts (see PathOf).
func At(message string, parts ...any) Error {
	return Error{FieldPath: PathOf(parts...), Message: message}
}

// FormLevel returns an error without a path.
func FormLevel(message string) Error {
	return Error{Message: message}
}

// IsFormLevel reports whether the error has no path.
func (e Error) IsFormLevel() bool {
	return e.FieldPath.Empty()
}

func (e Error) String() string {
	if e.IsFormLevel() {
		return e.Message
	}
	return e.FieldPath.String() + ": " + e.Message
}

// Messages extracts the messages of errs, trimmed, without blanks or
// duplicates, in their original order.
func Messages(errs []Error) []string {
	if len(errs) == 0 {
		return nil
	}

	out := make([]string, 0, len(errs))
	seen := make(map[string]struct{}, len(errs))
	for _, err := range errs {
		trimmed := strings.TrimSpace(err.Message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
