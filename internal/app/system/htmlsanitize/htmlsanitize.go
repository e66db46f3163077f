// Package htmlsanitize strips unsafe HTML from user-supplied rich text.
//
// Activity descriptions accept a limited set of formatting tags; script
// tags, event handlers, and javascript: URLs are removed before the
// value is persisted.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with disallowed tags and attributes removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// StripAll removes every tag, leaving plain text. Used for fields that
// must never carry markup (names, cities).
func StripAll(s string) string {
	if s == "" {
		return ""
	}
	return bluemonday.StrictPolicy().Sanitize(s)
}
