package contact

import (
	"fmt"
	"strings"

	"github.com/webtailor/contactkit/pkg/sanitizer"
	"github.com/webtailor/contactkit/pkg/validator"
)

// Policy selects the validation strictness and flow of a pipeline.
type Policy string

const (
	PolicySimple  Policy = "simple"
	PolicyStrict  Policy = "strict"
	PolicyConfirm Policy = "confirm"
)

// ParsePolicy accepts a policy name case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicySimple, PolicyStrict, PolicyConfirm:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p Policy) String() string { return string(p) }

// FailFast reports whether validation stops at the first violation.
func (p Policy) FailFast() bool { return p != PolicyConfirm }

// ChecksForgery reports whether the anti-forgery token is verified before
// sanitizing.
func (p Policy) ChecksForgery() bool { return p == PolicyStrict }

// Sends reports whether a valid submission is delivered and logged. The
// confirm policy parks it in the session instead.
func (p Policy) Sends() bool { return p != PolicyConfirm }

// RequiredFields lists the fields that must not be blank, in check order.
func (p Policy) RequiredFields() []string {
	if p == PolicySimple {
		return []string{FieldName, FieldEmail, FieldMessage}
	}
	return []string{FieldName, FieldEmail, FieldSubject, FieldMessage, FieldPrivacy}
}

// RuleConfig holds the tunable parts of the rule set.
type RuleConfig struct {
	NameMaxLen    int
	MessageMaxLen int
	ConsentValue  string
	Blank         validator.BlankFunc
}

// DefaultRuleConfig returns the stock limits: name 100, message 2000,
// consent "agree" and IsBlank.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		NameMaxLen:    100,
		MessageMaxLen: 2000,
		ConsentValue:  "agree",
		Blank:         validator.IsBlank,
	}
}

func (rc RuleConfig) withDefaults() RuleConfig {
	d := DefaultRuleConfig()
	if rc.NameMaxLen <= 0 {
		rc.NameMaxLen = d.NameMaxLen
	}
	if rc.MessageMaxLen <= 0 {
		rc.MessageMaxLen = d.MessageMaxLen
	}
	if rc.ConsentValue == "" {
		rc.ConsentValue = d.ConsentValue
	}
	if rc.Blank == nil {
		rc.Blank = d.Blank
	}
	return rc
}

// Rules builds the ordered rule list for a sanitized submission: required
// fields, then email syntax, then consent and length limits for the strict
// policy. Syntax and length are checked on the unescaped text so that an
// escaped "&" counts as one character and does not break an address.
func (p Policy) Rules(sub Submission, labels *Labels, rc RuleConfig) []validator.Rule {
	rc = rc.withDefaults()
	values := sub.Fields()

	var rules []validator.Rule
	for _, field := range p.RequiredFields() {
		rules = append(rules, validator.RequiredFunc(field, values[field], rc.Blank).
			WithMessage(labels.required(field)))
	}

	if email := sanitizer.UnescapeHTML(sub.Email); !rc.Blank(email) {
		rules = append(rules, validator.ValidEmail(FieldEmail, email).WithMessage(labels.Messages.Email))
	}

	if p != PolicyStrict {
		return rules
	}

	if !rc.Blank(sub.Privacy) {
		rules = append(rules, validator.Equal(FieldPrivacy, sub.Privacy, rc.ConsentValue).
			WithMessage(labels.Messages.Consent))
	}
	rules = append(rules,
		validator.MaxLen(FieldName, sanitizer.UnescapeHTML(sub.Name), rc.NameMaxLen).
			WithMessage(labels.maxLength(FieldName, rc.NameMaxLen)),
		validator.MaxLen(FieldMessage, sanitizer.UnescapeHTML(sub.Message), rc.MessageMaxLen).
			WithMessage(labels.maxLength(FieldMessage, rc.MessageMaxLen)),
	)
	return rules
}

// Validate runs Rules with the policy's strategy. The error is a
// validator.ValidationErrors or nil.
func (p Policy) Validate(sub Submission, labels *Labels, rc RuleConfig) error {
	rules := p.Rules(sub, labels, rc)
	if p.FailFast() {
		return validator.ApplyFirst(rules...)
	}
	return validator.Apply(rules...)
}
