package contact

import (
	"context"
	"fmt"

	"github.com/webtailor/contactkit/pkg/email"
)

// DeliveryStatus is the recorded outcome of one mail.
type DeliveryStatus string

const (
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
	DeliverySkipped   DeliveryStatus = "skipped"
)

// Delivery is one attempted mail. Err is kept for diagnostics only and never
// shown to the requester.
type Delivery struct {
	Params email.SendEmailParams
	Status DeliveryStatus
	Err    error
}

const (
	tagAdmin = "contact-admin"
	tagReply = "contact-reply"
)

func skipped(params email.SendEmailParams) Delivery {
	return Delivery{Params: params, Status: DeliverySkipped}
}

// send makes one guarded call. A panicking transport is reported as a failed
// delivery.
func send(ctx context.Context, sender email.EmailSender, params email.SendEmailParams) (d Delivery) {
	d.Params = params
	defer func() {
		if r := recover(); r != nil {
			d.Status = DeliveryFailed
			d.Err = fmt.Errorf("%w: %w: %v", email.ErrFailedToSendEmail, ErrPanic, r)
		}
	}()

	if err := sender.SendEmail(ctx, params); err != nil {
		d.Status = DeliveryFailed
		d.Err = err
		return d
	}
	d.Status = DeliveryDelivered
	return d
}
