package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"size:40;uniqueIndex;not null" json:"order_number"`

	CustomerID *uint     `gorm:"index" json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer,omitempty"`

	Status string `gorm:"size:20;not null;default:'PENDING';index" json:"status"`

	Subtotal decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"subtotal"`
	Tax      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"tax"`
	Shipping decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"shipping"`
	Discount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discount"`
	Total    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total"`
	Currency string          `gorm:"size:3;not null;default:'usd'" json:"currency"`

	ShippingAddress string `gorm:"type:text" json:"shipping_address"`
	Notes           string `gorm:"type:text" json:"notes"`

	// nil for orders created outside a provider checkout
	CheckoutSessionID *string `gorm:"size:255;uniqueIndex" json:"checkout_session_id"`

	Items    []OrderItem `gorm:"constraint:OnDelete:CASCADE;" json:"items,omitempty"`
	Payments []Payment   `json:"payments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem snapshots the product as it was at purchase time.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`

	ProductID   uint            `gorm:"index" json:"product_id"`
	ProductName string          `gorm:"size:150;not null" json:"product_name"`
	SKU         string          `gorm:"size:64" json:"sku"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`

	CreatedAt time.Time `json:"created_at"`
}
