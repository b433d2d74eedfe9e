package payment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/smallbiz/booking-core/internal/audit"
	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/events"
	"github.com/smallbiz/booking-core/internal/httperr"
	"github.com/smallbiz/booking-core/internal/models"
)

// RefundInput names the payment directly or through its order.
type RefundInput struct {
	PaymentID *uint
	OrderID   *uint
}

type RefundPayment struct {
	repo      domain.Repository
	provider  domain.Provider
	notifier  Notifier
	publisher events.Publisher
	audit     *audit.Dispatcher
	log       *zap.Logger

	now func() time.Time
}

func NewRefundPayment(
	repo domain.Repository,
	provider domain.Provider,
	notifier Notifier,
	publisher events.Publisher,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *RefundPayment {
	return &RefundPayment{
		repo:      repo,
		provider:  provider,
		notifier:  notifier,
		publisher: publisher,
		audit:     audit,
		log:       log,
		now:       time.Now,
	}
}

func (uc *RefundPayment) Execute(
	ctx context.Context,
	actorID uint,
	in RefundInput,
) (*models.Payment, error) {

	// --------------------------------------------------
	// 1. Resolve + validate
	// --------------------------------------------------
	p, err := uc.load(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := domain.CanRefund(domain.Status(p.Status)); err != nil {
		return nil, err
	}
	if p.StripePaymentIntentID == "" {
		return nil, httperr.ErrInvalidState("payment_not_refundable")
	}

	// --------------------------------------------------
	// 2. Provider refund
	// --------------------------------------------------
	refundID, err := uc.provider.Refund(ctx, p.StripePaymentIntentID)
	if err != nil {
		return nil, httperr.ErrProvider("refund_failed", err)
	}

	// --------------------------------------------------
	// 3. Cascade
	// --------------------------------------------------
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		fresh, err := tx.GetPayment(ctx, p.ID)
		if err != nil {
			return err
		}
		if _, err := applyRefund(ctx, tx, fresh, "", uc.now()); err != nil {
			return err
		}
		p = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   audit.ActionPaymentRefunded,
		Entity:   "payment",
		EntityID: &p.ID,
		Metadata: map[string]any{
			"refund_id": refundID,
			"amount":    p.Amount.StringFixed(2),
		},
	})

	publish(ctx, uc.publisher, uc.log, events.New(events.TypePaymentRefunded, p.ID, map[string]any{
		"refundId": refundID,
		"amount":   p.Amount.StringFixed(2),
	}))

	uc.notify(ctx, p)

	return p, nil
}

func (uc *RefundPayment) load(ctx context.Context, in RefundInput) (*models.Payment, error) {
	var (
		p   *models.Payment
		err error
	)

	switch {
	case in.PaymentID != nil:
		p, err = uc.repo.GetPayment(ctx, *in.PaymentID)
	case in.OrderID != nil:
		p, err = uc.repo.FindPaymentByOrderID(ctx, *in.OrderID)
	default:
		return nil, httperr.ErrValidation("payment_or_order_required")
	}

	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrNotFound("payment_not_found")
	}
	return p, err
}

func (uc *RefundPayment) notify(ctx context.Context, p *models.Payment) {
	if p.OrderID == nil {
		return
	}

	o, err := uc.repo.GetOrder(ctx, *p.OrderID)
	if err != nil {
		uc.log.Warn("refund notice skipped, order unavailable", zap.Uint("payment_id", p.ID), zap.Error(err))
		return
	}

	to := recipient(ctx, uc.repo, o.CustomerID, "")
	if to == nil {
		return
	}

	if err := uc.notifier.RefundNotice(ctx, to, o, p); err != nil {
		uc.log.Warn("refund notice email failed", zap.Uint("payment_id", p.ID), zap.Error(err))
	}
}
