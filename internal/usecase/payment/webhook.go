package payment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/httperr"
)

// Lifecycle routes verified provider events to their handlers.
type Lifecycle struct {
	checkoutCompleted *HandleCheckoutCompleted
	paymentSucceeded  *HandlePaymentSucceeded
	paymentFailed     *HandlePaymentFailed
	chargeRefunded    *HandleChargeRefunded
	log               *zap.Logger
}

func NewLifecycle(
	checkoutCompleted *HandleCheckoutCompleted,
	paymentSucceeded *HandlePaymentSucceeded,
	paymentFailed *HandlePaymentFailed,
	chargeRefunded *HandleChargeRefunded,
	log *zap.Logger,
) *Lifecycle {
	return &Lifecycle{
		checkoutCompleted: checkoutCompleted,
		paymentSucceeded:  paymentSucceeded,
		paymentFailed:     paymentFailed,
		chargeRefunded:    chargeRefunded,
		log:               log,
	}
}

// Dispatch returns an error only when the provider should retry.
func (l *Lifecycle) Dispatch(ctx context.Context, ev *domain.WebhookEvent) error {
	var err error

	switch ev.Type {
	case domain.EventCheckoutCompleted:
		if ev.Session == nil {
			return fmt.Errorf("event %s: missing session", ev.ID)
		}
		_, err = l.checkoutCompleted.Execute(ctx, ev.Session)

	case domain.EventPaymentSucceeded:
		err = l.paymentSucceeded.Execute(ctx, ev.PaymentIntentID)

	case domain.EventPaymentFailed:
		err = l.paymentFailed.Execute(ctx, ev.PaymentIntentID)

	case domain.EventChargeRefunded:
		err = l.chargeRefunded.Execute(ctx, ev.ChargeID, ev.PaymentIntentID)

	default:
		l.log.Info("webhook event ignored", zap.String("event_id", ev.ID), zap.String("type", string(ev.Type)))
		return nil
	}

	switch httperr.KindOf(err) {
	case httperr.KindInvalidState, httperr.KindValidation:
		// retrying cannot fix these
		l.log.Warn("webhook event rejected",
			zap.String("event_id", ev.ID),
			zap.String("type", string(ev.Type)),
			zap.Error(err),
		)
		return nil
	}

	return err
}
