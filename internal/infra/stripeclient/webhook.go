package stripeclient

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/smallbiz/booking-core/internal/domain/payment"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

// ParseWebhook verifies the Stripe-Signature header and extracts what the
// lifecycle needs. Unhandled event types come back with only ID and Type.
func (p *Provider) ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &payment.WebhookEvent{
		ID:   event.ID,
		Type: payment.EventType(event.Type),
	}

	if event.Data == nil {
		return nil, ErrInvalidPayload
	}

	switch out.Type {
	case payment.EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		out.Session = toCompletedSession(&s)

	case payment.EventPaymentSucceeded, payment.EventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		out.PaymentIntentID = pi.ID

	case payment.EventChargeRefunded:
		var ch stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		out.ChargeID = ch.ID
		if ch.PaymentIntent != nil {
			out.PaymentIntentID = ch.PaymentIntent.ID
		}
	}

	return out, nil
}

func toCompletedSession(s *stripe.CheckoutSession) *payment.CompletedSession {
	out := &payment.CompletedSession{
		ID:             s.ID,
		AmountTotal:    s.AmountTotal,
		AmountSubtotal: s.AmountSubtotal,
		Currency:       string(s.Currency),
		CustomerEmail:  s.CustomerEmail,
		Metadata:       s.Metadata,
	}

	if out.CustomerEmail == "" && s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	if s.TotalDetails != nil {
		out.AmountTax = s.TotalDetails.AmountTax
		out.AmountShipping = s.TotalDetails.AmountShipping
		out.AmountDiscount = s.TotalDetails.AmountDiscount
	}

	return out
}
