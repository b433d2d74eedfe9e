package payment

import "github.com/smallbiz/booking-core/internal/httperr"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
)

func CanComplete(s Status) error {
	if s != StatusPending {
		return httperr.ErrInvalidState("invalid_state")
	}
	return nil
}

func CanFail(s Status) error {
	if s != StatusPending {
		return httperr.ErrInvalidState("invalid_state")
	}
	return nil
}

func CanRefund(s Status) error {
	switch s {
	case StatusCompleted:
		return nil
	case StatusRefunded:
		return httperr.ErrInvalidState("payment_already_refunded")
	default:
		return httperr.ErrInvalidState("payment_not_refundable")
	}
}
