package contact

import (
	"github.com/webtailor/contactkit/pkg/sanitizer"
	"github.com/webtailor/contactkit/pkg/validator"
)

// Form field names.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldSubject  = "subject"
	FieldBudget   = "budget"
	FieldDeadline = "deadline"
	FieldMessage  = "message"
	FieldPrivacy  = "privacy"
)

// Submission is one contact-form post. CSRFToken is request-only and is
// never sanitized, stored, composed or logged.
type Submission struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Phone    string `form:"phone" json:"phone"`
	Subject  string `form:"subject" json:"subject"`
	Budget   string `form:"budget" json:"budget"`
	Deadline string `form:"deadline" json:"deadline"`
	Message  string `form:"message" json:"message"`
	Privacy  string `form:"privacy" json:"privacy"`

	CSRFToken string `form:"csrf_token" json:"-" sanitize:"-"`
}

// Sanitized returns a copy with every field passed through the sanitizer and
// the token dropped.
func (s Submission) Sanitized() Submission {
	out := sanitizer.Clean(s)
	out.CSRFToken = ""
	return out
}

// Fields returns the form values keyed by field name, the shape stored in
// the session for re-display.
func (s Submission) Fields() map[string]string {
	return map[string]string{
		FieldName:     s.Name,
		FieldEmail:    s.Email,
		FieldPhone:    s.Phone,
		FieldSubject:  s.Subject,
		FieldBudget:   s.Budget,
		FieldDeadline: s.Deadline,
		FieldMessage:  s.Message,
		FieldPrivacy:  s.Privacy,
	}
}

// SubmissionFromFields is the inverse of Fields. Unknown keys are ignored.
func SubmissionFromFields(m map[string]string) Submission {
	return Submission{
		Name:     m[FieldName],
		Email:    m[FieldEmail],
		Phone:    m[FieldPhone],
		Subject:  m[FieldSubject],
		Budget:   m[FieldBudget],
		Deadline: m[FieldDeadline],
		Message:  m[FieldMessage],
		Privacy:  m[FieldPrivacy],
	}
}

// present reports whether an optional field should appear in composed mail.
func present(v string) bool {
	return !validator.IsBlank(v)
}
