package payment

import "context"

// ======================================================
// CHECKOUT
// ======================================================

type LineItem struct {
	Name       string
	UnitAmount int64 // minor units
	Quantity   int64
}

type SessionRequest struct {
	Currency      string
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

type Session struct {
	ID  string
	URL string
}

// CompletedSession is the provider-agnostic view of a paid checkout.
// Amounts are in minor units.
type CompletedSession struct {
	ID              string
	AmountTotal     int64
	AmountSubtotal  int64
	AmountTax       int64
	AmountShipping  int64
	AmountDiscount  int64
	Currency        string
	CustomerEmail   string
	PaymentIntentID string
	Metadata        map[string]string
}

// ======================================================
// WEBHOOK
// ======================================================

type EventType string

const (
	EventCheckoutCompleted EventType = "checkout.session.completed"
	EventPaymentSucceeded  EventType = "payment_intent.succeeded"
	EventPaymentFailed     EventType = "payment_intent.payment_failed"
	EventChargeRefunded    EventType = "charge.refunded"
)

// WebhookEvent carries only what the lifecycle needs from a verified
// provider notification.
type WebhookEvent struct {
	ID   string
	Type EventType

	Session *CompletedSession // checkout.session.completed

	PaymentIntentID string // payment_intent.*, charge.refunded
	ChargeID        string // charge.refunded
}

// ======================================================
// PROVIDER
// ======================================================

type Provider interface {
	CreateCheckoutSession(
		ctx context.Context,
		req SessionRequest,
	) (*Session, error)

	// Refund refunds the full amount captured by the payment intent.
	Refund(
		ctx context.Context,
		paymentIntentID string,
	) (refundID string, err error)
}
