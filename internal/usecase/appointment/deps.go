package appointment

import (
	"context"

	"github.com/smallbiz/booking-core/internal/models"
)

// Notifier sends the booking confirmation; failures never undo a booking.
type Notifier interface {
	AppointmentConfirmation(
		ctx context.Context,
		customer *models.Customer,
		ap *models.Appointment,
		svc *models.Service,
	) error
}
