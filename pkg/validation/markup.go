package validation

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// NoMarkup fails when the input contains HTML that a strict sanitizer would
// strip. Plain text with entities or ampersands passes.
func NoMarkup(content any) Validator[string] {
	return Validate(func(input string, _ Context) bool {
		return StripMarkup(input) == strings.TrimSpace(input)
	}, content)
}

// StripMarkup removes every HTML element from input and returns the plain
// text.
func StripMarkup(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	cleaned := markupSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.StrictPolicy()
	})
	return markupPolicy
}
