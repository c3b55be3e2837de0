package domain

import (
	"slices"
	"strings"
)

// NormalizeSet trims entries, drops blanks and duplicates, and sorts the
// result. Technologies and key personnel are sets, so order carries no
// meaning. Nil stays nil so callers can tell "not provided" from "empty".
func NormalizeSet(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
