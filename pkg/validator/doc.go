// Package validator provides a tiny rule engine for validating sanitized form
// input.
//
// A Rule pairs a check with the ValidationError it reports. Rules are plain
// values built by constructors such as Required, ValidEmail or MaxLen and are
// evaluated by one of two policies:
//
//   - Apply evaluates every rule and returns all violations (collect-all).
//   - ApplyFirst stops at the first violation (fail-fast).
//
// Both return nil when the input is valid and ValidationErrors otherwise, so
// callers can use the ordinary error flow:
//
//	err := validator.ApplyFirst(
//	    validator.Required("email", form.Email),
//	    validator.ValidEmail("email", form.Email),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs != nil {
//	    // errs.Map() => map[string]string{"email": "field is required"}
//	}
//
// Messages default to English and can be replaced per rule with
// Rule.WithMessage. Each error also carries a TranslationKey for callers that
// resolve messages themselves.
//
// Lengths are measured in runes, not bytes.
package validator
