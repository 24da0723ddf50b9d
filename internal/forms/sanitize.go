// Package forms sanitizes and validates the site's form submissions. Each form
// type is described by a RuleSet: an ordered list of field checks where the
// first failure wins.
package forms

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Sanitize strips markup, trims surrounding whitespace and HTML-escapes the
// remaining text. Line endings are normalized to \n.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(strict.Sanitize(s))
}

// Values holds sanitized form fields by name.
type Values map[string]string

// SanitizeAll reads each named field through get and sanitizes it.
func SanitizeAll(get func(string) string, fields ...string) Values {
	v := make(Values, len(fields))
	for _, f := range fields {
		v[f] = Sanitize(get(f))
	}
	return v
}
