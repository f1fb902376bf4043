package validator

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"
)

// Required fails when value is blank according to IsBlank.
func Required(field, value string) Rule {
	return RequiredFunc(field, value, IsBlank)
}

// RequiredFunc fails when blank(value) reports true.
func RequiredFunc(field, value string, blank BlankFunc) Rule {
	if blank == nil {
		blank = IsBlank
	}
	return Rule{
		Check: func() bool {
			return !blank(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "field is required",
			TranslationKey: "validation.required",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// MinLen fails when value has fewer than min runes.
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) >= min
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at least %d characters long", min),
			TranslationKey: "validation.min_length",
			TranslationValues: map[string]any{
				"field": field,
				"min":   min,
			},
		},
	}
}

// MaxLen fails when value has more than max runes.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at most %d characters long", max),
			TranslationKey: "validation.max_length",
			TranslationValues: map[string]any{
				"field": field,
				"max":   max,
			},
		},
	}
}

// ValidEmail checks for a bare RFC 5322 address with a dotted domain.
// Display-name forms such as "Taro <taro@example.com>" are rejected.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return isEmail(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid email address",
			TranslationKey: "validation.email",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

func isEmail(value string) bool {
	if strings.TrimSpace(value) == "" || len(value) > 254 {
		return false
	}

	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Name != "" || addr.Address != value {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// Equal fails unless value equals expected exactly.
func Equal(field, value, expected string) Rule {
	return Rule{
		Check: func() bool {
			return value == expected
		},
		Error: ValidationError{
			Field:          field,
			Message:        "has an unexpected value",
			TranslationKey: "validation.equal",
			TranslationValues: map[string]any{
				"field":    field,
				"expected": expected,
			},
		},
	}
}

// OneOf fails unless value is one of allowed.
func OneOf(field, value string, allowed ...string) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(allowed, value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be one of: " + strings.Join(allowed, ", "),
			TranslationKey: "validation.one_of",
			TranslationValues: map[string]any{
				"field":   field,
				"allowed": allowed,
			},
		},
	}
}
