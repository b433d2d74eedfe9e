package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:150;not null" json:"name"`
	SKU         string `gorm:"size:64;index" json:"sku"`
	Description string `gorm:"type:text" json:"description"`

	Price  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Active bool            `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
