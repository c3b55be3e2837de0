// Package sanitize normalizes untrusted free text before it is stored.
// Engine output is already plain text, so content is kept as given: only
// surrounding whitespace and non-printing control characters are removed.
package sanitize

import (
	"strings"
	"unicode"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Text trims s and drops control characters other than newline and tab.
// Angle brackets, entities and inner whitespace are left untouched.
func Text(s string) string {
	s = lineEndings.Replace(s)
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// TextPtr is Text for optional fields; nil stays nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}

// List cleans every entry and drops the ones that end up empty.
func List(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if cleaned := Text(v); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
