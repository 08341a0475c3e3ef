// internal/app/system/normalize/normalize.go

// Package normalize provides input normalization helpers used by feature
// handlers before validation and persistence.
package normalize

import "strings"

// Email trims whitespace and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims surrounding whitespace from a query or form value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Key trims and uppercases an entity key (project or team key). Keys are
// stored uppercase so uniqueness checks are case-insensitive.
func Key(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
