package models

import "time"

type EmailLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Recipient string `gorm:"size:255;not null" json:"recipient"`
	Subject   string `gorm:"size:255" json:"subject"`
	EmailType string `gorm:"size:50;index" json:"email_type"`
	Status    string `gorm:"size:20;not null" json:"status"`

	Error             string `gorm:"type:text" json:"error,omitempty"`
	ProviderMessageID string `gorm:"size:255" json:"provider_message_id,omitempty"`

	RelatedOrderID       *uint `gorm:"index" json:"related_order_id"`
	RelatedAppointmentID *uint `gorm:"index" json:"related_appointment_id"`

	CreatedAt time.Time `json:"created_at"`
}
