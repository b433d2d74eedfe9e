package order

import "github.com/smallbiz/booking-core/internal/httperr"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
	StatusRefunded   Status = "REFUNDED"
)

// REFUNDED is deliberately absent: only refund flows reach it.
var adminTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return st, true
	}
	return "", false
}

func IsTerminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}

// CanTransition validates an admin-driven status change.
func CanTransition(from, to Status) error {
	for _, allowed := range adminTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrInvalidState("invalid_order_transition")
}

// CanCancelForFailedPayment limits the payment-failure cascade to orders
// that have not shipped.
func CanCancelForFailedPayment(s Status) bool {
	return s == StatusPending || s == StatusProcessing
}

// CanMarkRefunded follows the money: once the provider refunded, the order
// is refunded whatever its fulfilment state.
func CanMarkRefunded(s Status) bool {
	return s != StatusRefunded
}
