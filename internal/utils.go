package internal

import (
	"strings"
	"unicode/utf8"
)

// IsBlank reports whether s is empty or contains only whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Preview shortens s to at most n runes for log and console output,
// collapsing newlines so a segment fits on one line.
func Preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 3 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-3]) + "..."
}
