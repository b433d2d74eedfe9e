package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainAppointment "github.com/smallbiz/booking-core/internal/domain/appointment"
	"github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/dto"
	"github.com/smallbiz/booking-core/internal/middleware"
	"github.com/smallbiz/booking-core/internal/models"
	ucAppointment "github.com/smallbiz/booking-core/internal/usecase/appointment"
	ucPayment "github.com/smallbiz/booking-core/internal/usecase/payment"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type AvailabilityUseCase interface {
	Execute(ctx context.Context, in domainAppointment.AvailabilityInput) (*domainAppointment.Availability, error)
}

type CreateAppointmentUseCase interface {
	Execute(ctx context.Context, in ucAppointment.CreateAppointmentInput) (*models.Appointment, error)
}

// AppointmentAction covers cancel, complete and no-show.
type AppointmentAction interface {
	Execute(ctx context.Context, actorID, appointmentID uint) (*models.Appointment, error)
}

type ListByDateUseCase interface {
	Execute(ctx context.Context, date time.Time) ([]dto.AppointmentListDTO, error)
}

type ListByMonthUseCase interface {
	Execute(ctx context.Context, year, month int) ([]dto.AppointmentListDTO, error)
}

type CheckoutUseCase interface {
	Execute(ctx context.Context, in ucPayment.CheckoutInput) (*ucPayment.CheckoutOutput, error)
}

type RefundUseCase interface {
	Execute(ctx context.Context, actorID uint, in ucPayment.RefundInput) (*models.Payment, error)
}

type GetOrderUseCase interface {
	Execute(ctx context.Context, id uint) (*models.Order, error)
}

type UpdateOrderStatusUseCase interface {
	Execute(ctx context.Context, actorID, orderID uint, status string) (*models.Order, error)
}

type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error)
}

type EventDeduper interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	MarkDone(ctx context.Context, eventID string) error
	Release(ctx context.Context, eventID string) error
}

type WebhookDispatcher interface {
	Dispatch(ctx context.Context, ev *payment.WebhookEvent) error
}

// ======================================================
// HELPERS
// ======================================================

func idParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func actorID(c *gin.Context) uint {
	p, _ := middleware.PrincipalFrom(c)
	return p.UserID
}
