package email

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type timeoutSender struct {
	next    EmailSender
	timeout time.Duration
}

// WithTimeout bounds each call to next by d. Panics inside next are turned
// into errors. A non-positive d returns next unchanged.
func WithTimeout(next EmailSender, d time.Duration) EmailSender {
	if d <= 0 {
		return next
	}
	return &timeoutSender{next: next, timeout: d}
}

func (s *timeoutSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: transport panic: %v", ErrFailedToSendEmail, r)
			}
		}()
		done <- s.next.SendEmail(ctx, params)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, ErrFailedToSendEmail) {
			return errors.Join(ErrFailedToSendEmail, err)
		}
		return err
	case <-ctx.Done():
		return errors.Join(ErrFailedToSendEmail, ctx.Err())
	}
}
