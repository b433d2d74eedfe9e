package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Payment struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID *uint `gorm:"index" json:"order_id"`

	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency      string          `gorm:"size:3;not null;default:'usd'" json:"currency"`
	Status        string          `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	PaymentMethod string          `gorm:"size:30" json:"payment_method"`

	// checkout session id; unique so webhook redelivery cannot insert twice
	TransactionID *string `gorm:"size:255;uniqueIndex" json:"transaction_id"`

	StripePaymentIntentID string `gorm:"size:255;index" json:"stripe_payment_intent_id"`
	StripeChargeID        string `gorm:"size:255;index" json:"stripe_charge_id"`

	Metadata datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`

	RefundedAt *time.Time `json:"refunded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
