// Package normalize provides canonical forms for user-entered fields
// before they are persisted or compared.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email case-folds and trims an email address. All email lookups and the
// unique index operate on this form.
func Email(s string) string {
	return text.Fold(strings.TrimSpace(s))
}

// Name collapses internal whitespace runs and trims the ends.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// City trims and collapses whitespace. City equality filters and the
// distinct-city listing operate on this form.
func City(s string) string {
	return Name(s)
}
