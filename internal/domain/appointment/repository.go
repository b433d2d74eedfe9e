package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiz/booking-core/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrSlotTaken is raised by the store when a concurrent booking won
	// the interval (exclusion or serialization failure).
	ErrSlotTaken = errors.New("slot taken")
)

type Repository interface {
	// -------- Service --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// LockService reads the service row FOR UPDATE; only meaningful inside WithinTx.
	LockService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Customer --------
	GetCustomer(
		ctx context.Context,
		id uint,
	) (*models.Customer, error)

	GetOrCreateCustomer(
		ctx context.Context,
		name string,
		email string,
		phone string,
	) (*models.Customer, error)

	// -------- Appointment (create / conflict) --------
	ListActiveAppointments(
		ctx context.Context,
		serviceID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listing --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	WithinTx(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
