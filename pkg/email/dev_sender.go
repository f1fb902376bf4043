package email

import (
	"context"
	"errors"
	"time"

	"github.com/webtailor/contactkit/pkg/audit"
)

// DevSender writes messages to a local mail log instead of sending them.
type DevSender struct {
	journal  *audit.Journal[DevMail]
	from     string
	fromName string
	now      func() time.Time
}

// DevMail is one entry of the development mail log.
type DevMail struct {
	Timestamp string            `json:"timestamp"`
	To        string            `json:"to"`
	Subject   string            `json:"subject"`
	Message   string            `json:"message"`
	Headers   map[string]string `json:"headers"`
}

// NewDevSender appends pretty-printed entries to the file at path. The
// directory is created on first use.
func NewDevSender(path, from, fromName string) *DevSender {
	return &DevSender{
		journal:  audit.NewJournal[DevMail](path, audit.WithPretty()),
		from:     from,
		fromName: fromName,
		now:      time.Now,
	}
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	params = params.withDefaults(d.from, d.fromName)
	if err := params.Validate(); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	now := d.now()
	header := BuildHeader(params, now, "")
	entry := DevMail{
		Timestamp: now.Format(time.DateTime),
		To:        params.To,
		Subject:   params.Subject,
		Message:   params.BodyText,
		Headers:   header.Map(),
	}
	if err := d.journal.Append(ctx, entry); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}

// Sent reads back every logged message.
func (d *DevSender) Sent(ctx context.Context) ([]DevMail, error) {
	var out []DevMail
	err := d.journal.Read(ctx, func(m DevMail) error {
		out = append(out, m)
		return nil
	})
	return out, err
}
