package contact

import (
	"log/slog"
	"time"

	"github.com/webtailor/contactkit/pkg/email"
)

// Redirects are the view paths the pipeline sends the requester to.
type Redirects struct {
	Form    string
	Confirm string
	Thanks  string
}

// DefaultRedirects returns /contact, /contact-confirm and /contact-thanks.
func DefaultRedirects() Redirects {
	return Redirects{
		Form:    "/contact",
		Confirm: "/contact-confirm",
		Thanks:  "/contact-thanks",
	}
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

func WithLogger(log *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLabels sets the copy used for mail and user-facing messages.
func WithLabels(labels *Labels) PipelineOption {
	return func(p *Pipeline) {
		if labels != nil {
			p.composer = NewComposer(labels)
		}
	}
}

func WithRedirects(r Redirects) PipelineOption {
	return func(p *Pipeline) {
		d := DefaultRedirects()
		if r.Form == "" {
			r.Form = d.Form
		}
		if r.Confirm == "" {
			r.Confirm = d.Confirm
		}
		if r.Thanks == "" {
			r.Thanks = d.Thanks
		}
		p.redirects = r
	}
}

// WithAdminAddress sets the recipient of the admin notice. Without it the
// notice is skipped.
func WithAdminAddress(addr string) PipelineOption {
	return func(p *Pipeline) {
		p.adminAddress = addr
	}
}

// WithAdminNotify turns the admin notice on or off. A disabled notice is
// recorded as skipped, never as delivered.
func WithAdminNotify(enabled bool) PipelineOption {
	return func(p *Pipeline) {
		p.adminNotify = enabled
	}
}

// WithReplyFrom sets the sender address and name of the auto-reply. Empty
// values fall back to the transport's configured sender.
func WithReplyFrom(addr, name string) PipelineOption {
	return func(p *Pipeline) {
		p.replyFrom = addr
		p.replyFromName = name
	}
}

func WithRuleConfig(rc RuleConfig) PipelineOption {
	return func(p *Pipeline) {
		p.rules = rc.withDefaults()
	}
}

// WithMailTimeout bounds each mail call. A timed out call counts as failed.
func WithMailTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.mailTimeout = d
	}
}

// WithSender replaces the mail transport.
func WithSender(sender email.EmailSender) PipelineOption {
	return func(p *Pipeline) {
		if sender != nil {
			p.sender = sender
		}
	}
}
