package payment

import (
	"context"
	"errors"

	"github.com/smallbiz/booking-core/internal/models"
)

var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique key (checkout session id) already exists.
var ErrDuplicate = errors.New("duplicate key")

type Repository interface {
	// -------- Catalog --------
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)

	// -------- Appointment --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	// -------- Order --------
	// CreateOrder inserts the order with its items.
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	FindOrderBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status string) error

	// -------- Payment --------
	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)
	// FindPaymentByOrderID returns the most recent payment of the order.
	FindPaymentByOrderID(ctx context.Context, orderID uint) (*models.Payment, error)
	FindPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	FindPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	FindPaymentByChargeID(ctx context.Context, chargeID string) (*models.Payment, error)
	UpdatePayment(ctx context.Context, p *models.Payment) error

	WithinTx(ctx context.Context, fn func(tx Repository) error) error
}
