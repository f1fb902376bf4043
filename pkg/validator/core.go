package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a single violation bound to a field.
type ValidationError struct {
	Field             string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

// ValidationErrors is an ordered set of violations. It implements error.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ErrValidationFailed.Error()
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (ve ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns every message reported for field.
func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// Fields returns the distinct failing fields in first-seen order.
func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

// Map flattens the errors into field -> first message, the shape stored in
// the session for form re-display.
func (ve ValidationErrors) Map() map[string]string {
	m := make(map[string]string, len(ve))
	for _, err := range ve {
		if _, ok := m[err.Field]; !ok {
			m[err.Field] = err.Message
		}
	}
	return m
}

// First returns the first violation, if any.
func (ve ValidationErrors) First() (ValidationError, bool) {
	if len(ve) == 0 {
		return ValidationError{}, false
	}
	return ve[0], true
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Rule is a single validation check.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// WithMessage returns a copy of the rule reporting msg instead of the default
// message.
func (r Rule) WithMessage(msg string) Rule {
	r.Error.Message = msg
	return r
}

// Apply evaluates all rules and returns every violation.
func Apply(rules ...Rule) error {
	var errs ValidationErrors

	for _, rule := range rules {
		if !rule.Check() {
			errs.Add(rule.Error)
		}
	}

	if errs.IsEmpty() {
		return nil
	}
	return errs
}

// ApplyFirst evaluates rules in order and returns only the first violation.
func ApplyFirst(rules ...Rule) error {
	for _, rule := range rules {
		if !rule.Check() {
			return ValidationErrors{rule.Error}
		}
	}
	return nil
}

// ExtractValidationErrors extracts ValidationErrors from an error chain.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}
