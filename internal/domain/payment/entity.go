package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbiz/booking-core/internal/models"
)

func Complete(p *models.Payment) error {
	if err := CanComplete(Status(p.Status)); err != nil {
		return err
	}
	p.Status = string(StatusCompleted)
	return nil
}

func Fail(p *models.Payment) error {
	if err := CanFail(Status(p.Status)); err != nil {
		return err
	}
	p.Status = string(StatusFailed)
	return nil
}

// MarkRefunded records a refund the provider already executed. Unlike
// CanRefund it accepts any prior state except REFUNDED.
func MarkRefunded(p *models.Payment, now time.Time) bool {
	if Status(p.Status) == StatusRefunded {
		return false
	}
	p.Status = string(StatusRefunded)
	p.RefundedAt = &now
	return true
}

// FromMinor converts provider minor units (cents) to a decimal amount.
func FromMinor(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

// ToMinor converts a decimal amount to provider minor units, rounding half away from zero.
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
