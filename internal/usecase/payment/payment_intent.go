package payment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/smallbiz/booking-core/internal/domain/order"
	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/events"
)

// ======================================================
// payment_intent.succeeded
// ======================================================

// Checkout writes its payment as COMPLETED when the session completes, so
// both intent handlers only reconcile payments recorded PENDING elsewhere
// (manual entry, imports). Anything else is acknowledged unchanged.

type HandlePaymentSucceeded struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewHandlePaymentSucceeded(repo domain.Repository, log *zap.Logger) *HandlePaymentSucceeded {
	return &HandlePaymentSucceeded{repo: repo, log: log}
}

func (uc *HandlePaymentSucceeded) Execute(ctx context.Context, intentID string) error {
	p, err := uc.repo.FindPaymentByIntentID(ctx, intentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if domain.Status(p.Status) != domain.StatusPending {
		uc.log.Debug("payment already settled", zap.Uint("payment_id", p.ID), zap.String("status", p.Status))
		return nil
	}

	if err := domain.Complete(p); err != nil {
		return err
	}
	return uc.repo.UpdatePayment(ctx, p)
}

// ======================================================
// payment_intent.payment_failed
// ======================================================

type HandlePaymentFailed struct {
	repo      domain.Repository
	publisher events.Publisher
	log       *zap.Logger
}

func NewHandlePaymentFailed(
	repo domain.Repository,
	publisher events.Publisher,
	log *zap.Logger,
) *HandlePaymentFailed {
	return &HandlePaymentFailed{repo: repo, publisher: publisher, log: log}
}

func (uc *HandlePaymentFailed) Execute(ctx context.Context, intentID string) error {
	var failedID uint

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		p, err := tx.FindPaymentByIntentID(ctx, intentID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := domain.Fail(p); err != nil {
			uc.log.Info("payment not pending, ignoring failure",
				zap.Uint("payment_id", p.ID),
				zap.String("status", p.Status),
			)
			return nil
		}

		if err := tx.UpdatePayment(ctx, p); err != nil {
			return err
		}
		failedID = p.ID

		if p.OrderID == nil {
			return nil
		}

		o, err := tx.GetOrder(ctx, *p.OrderID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if !order.CanCancelForFailedPayment(order.Status(o.Status)) {
			return nil
		}
		return tx.UpdateOrderStatus(ctx, o.ID, string(order.StatusCancelled))
	})
	if err != nil {
		return err
	}

	if failedID != 0 {
		publish(ctx, uc.publisher, uc.log, events.New(events.TypePaymentFailed, failedID, map[string]any{
			"paymentIntentId": intentID,
		}))
	}
	return nil
}
