package payment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/events"
	"github.com/smallbiz/booking-core/internal/models"
)

type HandleChargeRefunded struct {
	repo      domain.Repository
	publisher events.Publisher
	log       *zap.Logger

	now func() time.Time
}

func NewHandleChargeRefunded(
	repo domain.Repository,
	publisher events.Publisher,
	log *zap.Logger,
) *HandleChargeRefunded {
	return &HandleChargeRefunded{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Execute reconciles a refund made at the provider. Unknown charges are
// acknowledged without side effects.
func (uc *HandleChargeRefunded) Execute(ctx context.Context, chargeID, intentID string) error {
	var refunded *models.Payment

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		p, err := uc.lookup(ctx, tx, chargeID, intentID)
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Info("refunded charge has no payment", zap.String("charge_id", chargeID))
			return nil
		}
		if err != nil {
			return err
		}

		changed, err := applyRefund(ctx, tx, p, chargeID, uc.now())
		if err != nil {
			return err
		}
		if changed {
			refunded = p
		}
		return nil
	})
	if err != nil {
		return err
	}

	if refunded != nil {
		publish(ctx, uc.publisher, uc.log, events.New(events.TypePaymentRefunded, refunded.ID, map[string]any{
			"chargeId": chargeID,
			"amount":   refunded.Amount.StringFixed(2),
		}))
	}
	return nil
}

func (uc *HandleChargeRefunded) lookup(
	ctx context.Context,
	tx domain.Repository,
	chargeID string,
	intentID string,
) (*models.Payment, error) {

	if chargeID != "" {
		p, err := tx.FindPaymentByChargeID(ctx, chargeID)
		if err == nil || !errors.Is(err, domain.ErrNotFound) {
			return p, err
		}
	}

	if intentID == "" {
		return nil, domain.ErrNotFound
	}
	return tx.FindPaymentByIntentID(ctx, intentID)
}
