package email

import (
	"fmt"
	"log/slog"
)

// NewFromConfig builds the transport named by cfg.Transport. Callers bound
// each send with WithTimeout.
func NewFromConfig(cfg Config, log *slog.Logger) (EmailSender, error) {
	var (
		sender EmailSender
		err    error
	)

	switch cfg.Transport {
	case TransportPostmark:
		sender, err = NewPostmarkClient(cfg)
	case TransportSMTP:
		sender, err = NewSMTPSender(cfg)
	case TransportDev, "":
		if cfg.DevLogPath == "" {
			return nil, fmt.Errorf("%w: DevLogPath is required", ErrInvalidConfig)
		}
		sender = NewDevSender(cfg.DevLogPath, cfg.SenderEmail, cfg.SenderName)
	case TransportLog:
		sender = NewLogSender(log)
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, cfg.Transport)
	}
	if err != nil {
		return nil, err
	}

	return sender, nil
}

// MustNewFromConfig panics on invalid configuration.
func MustNewFromConfig(cfg Config, log *slog.Logger) EmailSender {
	sender, err := NewFromConfig(cfg, log)
	if err != nil {
		panic(err)
	}
	return sender
}
