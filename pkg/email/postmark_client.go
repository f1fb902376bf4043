package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

type postmarkClient struct {
	client *postmark.Client
	config Config
}

// PostmarkOption customises the underlying API client.
type PostmarkOption func(*postmark.Client)

// WithPostmarkBaseURL points the client at another API endpoint.
func WithPostmarkBaseURL(url string) PostmarkOption {
	return func(c *postmark.Client) { c.BaseURL = url }
}

// NewPostmarkClient creates a Postmark-backed sender. The server token and a
// valid sender address are required.
func NewPostmarkClient(cfg Config, opts ...PostmarkOption) (EmailSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if !isAddress(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	client := postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)
	for _, opt := range opts {
		opt(client)
	}
	return &postmarkClient{client: client, config: cfg}, nil
}

// MustNewPostmarkClient panics on invalid configuration.
func MustNewPostmarkClient(cfg Config, opts ...PostmarkOption) EmailSender {
	client, err := NewPostmarkClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

func (c *postmarkClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	params = params.withDefaults(c.config.SenderEmail, c.config.SenderName)
	if err := params.Validate(); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:     FormatAddress(params.FromName, params.From),
		To:       params.To,
		ReplyTo:  params.ReplyTo,
		Subject:  params.Subject,
		Tag:      params.Tag,
		TextBody: params.BodyText,
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
