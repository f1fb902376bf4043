package email

import (
	"context"
	"errors"
	"log/slog"

	"github.com/webtailor/contactkit/pkg/logger"
)

type logSender struct {
	log *slog.Logger
}

// NewLogSender returns a sender that only records the attempt in the log.
func NewLogSender(log *slog.Logger) EmailSender {
	if log == nil {
		log = logger.Discard()
	}
	return &logSender{log: log}
}

func (s *logSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	s.log.InfoContext(ctx, "email not sent: log transport",
		logger.Component("email"),
		logger.Recipient(params.To),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag),
	)
	return nil
}
