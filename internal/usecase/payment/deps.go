package payment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/smallbiz/booking-core/internal/domain/order"
	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/events"
	"github.com/smallbiz/booking-core/internal/models"
)

type Notifier interface {
	OrderConfirmation(ctx context.Context, customer *models.Customer, o *models.Order) error
	PaymentReceipt(ctx context.Context, customer *models.Customer, o *models.Order, p *models.Payment) error
	RefundNotice(ctx context.Context, customer *models.Customer, o *models.Order, p *models.Payment) error
}

// recipient resolves who gets order emails: the checkout email wins over
// the stored customer. Returns nil when there is nobody to write to.
func recipient(
	ctx context.Context,
	repo domain.Repository,
	customerID *uint,
	email string,
) *models.Customer {
	var c *models.Customer
	if customerID != nil {
		if found, err := repo.GetCustomer(ctx, *customerID); err == nil {
			c = found
		}
	}

	switch {
	case email != "" && c != nil:
		return &models.Customer{ID: c.ID, Name: c.Name, Email: email}
	case email != "":
		return &models.Customer{Email: email}
	case c != nil && c.Email != "":
		return c
	}
	return nil
}

func publish(ctx context.Context, pub events.Publisher, log *zap.Logger, ev events.Event) {
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn("publish event failed",
			zap.String("type", ev.Type),
			zap.Uint("entity_id", ev.EntityID),
			zap.Error(err),
		)
	}
}

// applyRefund moves a payment to REFUNDED and cascades to its order.
// It reports false when the payment was already refunded.
func applyRefund(
	ctx context.Context,
	tx domain.Repository,
	p *models.Payment,
	chargeID string,
	now time.Time,
) (bool, error) {

	if chargeID != "" && p.StripeChargeID == "" {
		p.StripeChargeID = chargeID
	}

	if !domain.MarkRefunded(p, now) {
		return false, nil
	}

	if err := tx.UpdatePayment(ctx, p); err != nil {
		return false, err
	}

	if p.OrderID == nil {
		return true, nil
	}

	o, err := tx.GetOrder(ctx, *p.OrderID)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if order.CanMarkRefunded(order.Status(o.Status)) {
		if err := tx.UpdateOrderStatus(ctx, o.ID, string(order.StatusRefunded)); err != nil {
			return false, err
		}
	}

	return true, nil
}
