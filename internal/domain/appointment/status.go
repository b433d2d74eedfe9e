package appointment

import (
	"github.com/shopspring/decimal"

	"github.com/smallbiz/booking-core/internal/httperr"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusNoShow    Status = "NO_SHOW"
)

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrInvalidState("invalid_state")
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrInvalidState("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrInvalidState("invalid_state")
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrInvalidState("invalid_state")
	}
	return nil
}

// InitialStatus confirms free bookings right away; paid ones wait for the
// checkout webhook.
func InitialStatus(price decimal.Decimal) Status {
	if price.IsPositive() {
		return StatusPending
	}
	return StatusConfirmed
}
