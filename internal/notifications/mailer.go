package notifications

import (
	"context"

	"go.uber.org/zap"

	"github.com/smallbiz/booking-core/internal/httperr"
	"github.com/smallbiz/booking-core/internal/models"
)

const (
	TypeAppointmentConfirmation = "APPOINTMENT_CONFIRMATION"
	TypeOrderConfirmation       = "ORDER_CONFIRMATION"
	TypePaymentReceipt          = "PAYMENT_RECEIPT"
	TypeRefundNotice            = "REFUND_NOTICE"
)

const (
	LogStatusPending = "PENDING"
	LogStatusSent    = "SENT"
	LogStatusFailed  = "FAILED"
)

type Email struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
	Type    string

	OrderID       *uint
	AppointmentID *uint
}

type SendResult struct {
	Success bool
	LogID   uint
}

type EmailLogStore interface {
	CreateEmailLog(ctx context.Context, entry *models.EmailLog) error
}

// Mailer sends through the transport and records every attempt.
type Mailer struct {
	transport Transport
	logs      EmailLogStore
	log       *zap.Logger
}

// NewMailer accepts a nil transport; messages are then only logged as PENDING.
func NewMailer(transport Transport, logs EmailLogStore, log *zap.Logger) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailer{transport: transport, logs: logs, log: log}
}

func (m *Mailer) Send(ctx context.Context, e Email) (SendResult, error) {
	entry := &models.EmailLog{
		Recipient:            e.To,
		Subject:              e.Subject,
		EmailType:            e.Type,
		RelatedOrderID:       e.OrderID,
		RelatedAppointmentID: e.AppointmentID,
	}

	var sendErr error
	switch {
	case m.transport == nil:
		entry.Status = LogStatusPending
	default:
		id, err := m.transport.Send(ctx, Message{
			ToEmail: e.To,
			ToName:  e.ToName,
			Subject: e.Subject,
			HTML:    e.HTML,
			Text:    e.Text,
		})
		if err != nil {
			sendErr = err
			entry.Status = LogStatusFailed
			entry.Error = err.Error()
		} else {
			entry.Status = LogStatusSent
			entry.ProviderMessageID = id
		}
	}

	if m.logs != nil {
		if err := m.logs.CreateEmailLog(ctx, entry); err != nil {
			m.log.Warn("email log write failed", zap.String("type", e.Type), zap.Error(err))
		}
	}

	if sendErr != nil {
		return SendResult{LogID: entry.ID}, httperr.ErrNotification("email_send_failed", sendErr)
	}

	return SendResult{Success: entry.Status == LogStatusSent, LogID: entry.ID}, nil
}
