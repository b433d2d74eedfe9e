package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	Price              decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	DurationMin        int             `gorm:"not null" json:"duration"`
	BufferMin          int             `gorm:"not null;default:0" json:"buffer_time"`
	MaxBookingsPerSlot int             `gorm:"not null;default:1" json:"max_bookings_per_slot"`

	Active     bool  `gorm:"default:true" json:"is_active"`
	CategoryID *uint `json:"category_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Capacity never reports less than one booking per slot.
func (s *Service) Capacity() int {
	if s.MaxBookingsPerSlot < 1 {
		return 1
	}
	return s.MaxBookingsPerSlot
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}

func (s *Service) Buffer() time.Duration {
	if s.BufferMin <= 0 {
		return 0
	}
	return time.Duration(s.BufferMin) * time.Minute
}
