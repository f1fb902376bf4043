package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
)

type smtpSender struct {
	addr      string
	host      string
	helo      string
	username  string
	password  string
	startTLS  bool
	tlsConfig *tls.Config
	from      string
	fromName  string
	now       func() time.Time
}

// SMTPOption customises an SMTP sender.
type SMTPOption func(*smtpSender)

// WithTLSConfig overrides the TLS configuration used for STARTTLS.
func WithTLSConfig(cfg *tls.Config) SMTPOption {
	return func(s *smtpSender) { s.tlsConfig = cfg }
}

// NewSMTPSender creates a sender that opens one SMTP connection per message.
// STARTTLS is required when enabled; PLAIN auth is used when a username is
// set.
func NewSMTPSender(cfg Config, opts ...SMTPOption) (EmailSender, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("%w: SMTPHost is required", ErrInvalidConfig)
	}
	if cfg.SMTPPort <= 0 || cfg.SMTPPort > 65535 {
		return nil, fmt.Errorf("%w: SMTPPort is out of range", ErrInvalidConfig)
	}
	if !isAddress(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	s := &smtpSender{
		addr:     net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		host:     cfg.SMTPHost,
		helo:     cfg.SMTPHelo,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		startTLS: cfg.SMTPStartTLS,
		from:     cfg.SenderEmail,
		fromName: cfg.SenderName,
		now:      time.Now,
	}
	if s.helo == "" {
		s.helo = "localhost"
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tlsConfig == nil {
		s.tlsConfig = &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}
	}
	return s, nil
}

func (s *smtpSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	params = params.withDefaults(s.from, s.fromName)
	if err := params.Validate(); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if err := s.send(ctx, params); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}

func (s *smtpSender) send(ctx context.Context, params SendEmailParams) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	// unblock protocol reads when the context is canceled mid-conversation
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Unix(1, 0)) })
	defer stop()

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(s.helo); err != nil {
		return fmt.Errorf("hello: %w", err)
	}
	if s.startTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return errors.New("server does not support STARTTLS")
		}
		if err := c.StartTLS(s.tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.username != "" {
		if err := c.Auth(sasl.NewPlainClient("", s.username, s.password)); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	msg := BuildMessage(params, s.now(), messageID(params.From))
	if err := c.SendMail(params.From, []string{params.To}, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return c.Quit()
}

func messageID(from string) string {
	domain := "localhost"
	if _, d, ok := strings.Cut(from, "@"); ok && d != "" {
		domain = d
	}
	return uuid.NewString() + "@" + domain
}
