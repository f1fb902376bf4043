package email

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

// EmailSender delivers one message per call.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SenderFunc adapts a function to EmailSender.
type SenderFunc func(ctx context.Context, params SendEmailParams) error

func (f SenderFunc) SendEmail(ctx context.Context, params SendEmailParams) error {
	return f(ctx, params)
}

// SendEmailParams describes one plain-text message. Empty From means the
// transport's configured sender.
type SendEmailParams struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyText string `json:"body_text"`
	From     string `json:"from,omitempty"`
	FromName string `json:"from_name,omitempty"`
	ReplyTo  string `json:"reply_to,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks addresses and rejects line breaks in header values.
func (p SendEmailParams) Validate() error {
	if strings.TrimSpace(p.To) == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidParams)
	}
	if !isAddress(p.To) {
		return fmt.Errorf("%w: invalid recipient address", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.BodyText) == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	if p.From != "" && !isAddress(p.From) {
		return fmt.Errorf("%w: invalid sender address", ErrInvalidParams)
	}
	if p.ReplyTo != "" && !isAddress(p.ReplyTo) {
		return fmt.Errorf("%w: invalid reply-to address", ErrInvalidParams)
	}
	for name, v := range map[string]string{"subject": p.Subject, "from name": p.FromName, "tag": p.Tag} {
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("%w: line break in %s", ErrInvalidParams, name)
		}
	}
	return nil
}

// withDefaults fills the sender identity from transport configuration.
func (p SendEmailParams) withDefaults(from, fromName string) SendEmailParams {
	if p.From == "" {
		p.From = from
		if p.FromName == "" {
			p.FromName = fromName
		}
	}
	return p
}

func isAddress(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
