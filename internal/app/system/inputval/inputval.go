// internal/app/system/inputval/inputval.go

// Package inputval holds field-level validation helpers shared by feature
// handlers. Handlers normalize first (system/normalize), then validate.
package inputval

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// emailRe is deliberately stricter than a bare "contains @" check: no
// leading/trailing/consecutive dots in local or domain parts, no spaces,
// single-label domains allowed for dev environments.
var emailRe = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*@[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)*$`)

// IsValidEmail reports whether s looks like a deliverable email address.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return emailRe.MatchString(s)
}

// LengthBetween reports whether the rune length of s is within [min, max].
// Pass max = 0 for no upper bound.
func LengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	if n < min {
		return false
	}
	if max > 0 && n > max {
		return false
	}
	return true
}

// keyRe: uppercase letters, digits, hyphens; must start with a letter.
// Examples: AL, FE-TEAM, API2.
var keyRe = regexp.MustCompile(`^[A-Z][A-Z0-9-]{0,19}$`)

// IsValidKey reports whether s is an acceptable (already uppercased)
// project or team key.
func IsValidKey(s string) bool {
	return keyRe.MatchString(s)
}
