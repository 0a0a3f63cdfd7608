package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/state"
)

// Matcher reports whether a value is acceptable.
type Matcher[V any] func(value V, ctx Context) bool

// Validate builds a validator from a matcher. content is the message used on
// failure: a string, a func(V) string computing it from the input, or any
// other value formatted with fmt.Sprint.
func Validate[V any](matcher Matcher[V], content any) Validator[V] {
	return func(value V, ctx Context) string {
		if matcher == nil || matcher(value, ctx) {
			return ""
		}
		return message(content, value)
	}
}

func message[V any](content any, value V) string {
	switch typed := content.(type) {
	case nil:
		return "invalid value"
	case string:
		return typed
	case func(V) string:
		return typed(value)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

// NotEmpty fails on the empty string.
func NotEmpty(content any) Validator[string] {
	return Validate(func(input string, _ Context) bool {
		return input != ""
	}, content)
}

var nonNumeric = regexp.MustCompile(`[^0-9.,]`)

// Numeric fails on empty input or input containing anything other than
// digits, dots and commas.
func Numeric(content any) Validator[string] {
	return Validate(func(input string, _ Context) bool {
		return input != "" && !nonNumeric.MatchString(input)
	}, content)
}

// LengthMoreThan fails unless the input has more than length characters.
func LengthMoreThan(length int, content any) Validator[string] {
	return Validate(func(input string, _ Context) bool {
		return utf8.RuneCountInString(input) > length
	}, content)
}

// LengthLessThan fails unless the input has fewer than length characters.
func LengthLessThan(length int, content any) Validator[string] {
	return Validate(func(input string, _ Context) bool {
		return utf8.RuneCountInString(input) < length
	}, content)
}

// Matches fails when the input does not match pattern. An invalid pattern
// yields a validator that always reports the compile error, so the mistake
// surfaces on the first interaction instead of being silently ignored.
func Matches(pattern string, content any) Validator[string] {
	re, err := regexp.Compile(pattern)
	if err != nil {
		reason := fmt.Sprintf("invalid pattern %q: %v", pattern, err)
		return func(string, Context) string { return reason }
	}
	return Validate(func(input string, _ Context) bool {
		return re.MatchString(input)
	}, content)
}

// UniqueAmongSiblings fails when another record in the same list has an equal
// value for key. When scopeKey is set, only siblings whose scopeKey value
// matches this record's are compared (variants sharing an option must have
// distinct values). Outside a list it always passes.
func UniqueAmongSiblings(key, scopeKey string, content any) Validator[any] {
	return func(value any, ctx Context) string {
		if ctx.ListItem == nil {
			return ""
		}
		for _, sibling := range ctx.Siblings {
			if scopeKey != "" && !state.Equal(sibling.Value(scopeKey), ctx.ListItem.Value(scopeKey)) {
				continue
			}
			if state.Equal(sibling.Value(key), value) {
				return message(content, value)
			}
		}
		return ""
	}
}

// LinkedContains reports whether the linked value is a string containing
// needle, ignoring case.
func LinkedContains(ctx Context, needle string) bool {
	linked, ok := LinkedAs[string](ctx)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(linked), strings.ToLower(needle))
}
