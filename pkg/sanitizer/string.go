package sanitizer

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// String is the canonical leaf sanitizer: entity decoding, NFC normalisation,
// trimming and HTML escaping, in that order. Decoding comes first so that an
// entity expanding to a combining mark is composed on the first pass.
func String(s string) string {
	return Apply(s,
		RemoveNullBytes,
		UnescapeHTML,
		Normalize,
		Trim,
		EscapeHTML,
	)
}

// Trim removes leading and trailing whitespace, including full-width spaces.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Normalize converts s to Unicode normalization form C so that visually equal
// Japanese input compares and measures equal.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// EscapeHTML escapes <, >, &, ' and ".
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// UnescapeHTML decodes HTML entities.
func UnescapeHTML(s string) string {
	return html.UnescapeString(s)
}

// RemoveNullBytes drops NUL characters.
func RemoveNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// RemoveControlChars removes control characters except newline, carriage
// return and tab.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// SingleLine collapses line breaks and tabs into single spaces. Used for
// values that end up in mail headers.
func SingleLine(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == '\r' || r == '\n' || r == '\t' {
			if !space {
				b.WriteRune(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// MaxLength truncates s to at most n runes.
func MaxLength(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
