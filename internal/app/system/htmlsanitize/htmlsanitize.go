// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-supplied text
// before it is persisted. Descriptions and sprint goals accept a small set
// of formatting tags; everything else (titles, names, keys) goes through
// PlainText.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps user-generated-content-safe HTML (bold, links, lists) and
// removes scripts, event handlers, and javascript: URLs.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// PlainText strips all markup, leaving only text content.
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
