package validator

import "strings"

// BlankFunc reports whether a value should be treated as missing.
type BlankFunc func(string) bool

// IsBlank reports whether s is empty after trimming whitespace. "0" is a
// value.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsEmptyLoose mirrors the loose emptiness check of classic form handlers:
// blank strings and the string "0" both count as missing.
func IsEmptyLoose(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed == "" || trimmed == "0"
}
