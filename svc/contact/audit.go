package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/webtailor/contactkit/pkg/sanitizer"
)

const (
	unknownValue      = "unknown"
	maxUserAgentRunes = 255
)

// AuditRecord is one line of the contact journal. Records are only ever
// appended.
type AuditRecord struct {
	ID               uuid.UUID `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	RequestID        string    `json:"request_id,omitempty"`
	Policy           Policy    `json:"policy"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Subject          string    `json:"subject"`
	AdminMailSent    bool      `json:"admin_mail_sent"`
	AdminMailSkipped bool      `json:"admin_mail_skipped,omitempty"`
	ReplyMailSent    bool      `json:"reply_mail_sent"`
	IPAddress        string    `json:"ip_address"`
	UserAgent        string    `json:"user_agent"`
}

func newAuditRecord(in Input, sub Submission, policy Policy, at time.Time, admin, reply Delivery) AuditRecord {
	return AuditRecord{
		ID:               uuid.New(),
		Timestamp:        at,
		RequestID:        in.RequestID,
		Policy:           policy,
		Name:             sub.Name,
		Email:            sub.Email,
		Subject:          sub.Subject,
		AdminMailSent:    admin.Status == DeliveryDelivered,
		AdminMailSkipped: admin.Status == DeliverySkipped,
		ReplyMailSent:    reply.Status == DeliveryDelivered,
		IPAddress:        orUnknown(sanitizer.String(in.ClientIP)),
		UserAgent:        orUnknown(sanitizer.String(sanitizer.MaxLength(sanitizer.RemoveControlChars(in.UserAgent), maxUserAgentRunes))),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return unknownValue
	}
	return s
}
