package order

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/smallbiz/booking-core/internal/audit"
	domain "github.com/smallbiz/booking-core/internal/domain/order"
	"github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/events"
	"github.com/smallbiz/booking-core/internal/httperr"
	"github.com/smallbiz/booking-core/internal/models"
)

type UpdateOrderStatus struct {
	repo      payment.Repository
	audit     *audit.Dispatcher
	publisher events.Publisher
	log       *zap.Logger
}

func NewUpdateOrderStatus(
	repo payment.Repository,
	audit *audit.Dispatcher,
	publisher events.Publisher,
	log *zap.Logger,
) *UpdateOrderStatus {
	return &UpdateOrderStatus{
		repo:      repo,
		audit:     audit,
		publisher: publisher,
		log:       log,
	}
}

func (uc *UpdateOrderStatus) Execute(
	ctx context.Context,
	actorID uint,
	orderID uint,
	status string,
) (*models.Order, error) {

	next, ok := domain.ParseStatus(status)
	if !ok {
		return nil, httperr.ErrValidation("invalid_status")
	}

	o, err := loadOrder(ctx, uc.repo, orderID)
	if err != nil {
		return nil, err
	}

	prev := domain.Status(o.Status)
	if err := domain.CanTransition(prev, next); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateOrderStatus(ctx, o.ID, string(next)); err != nil {
		return nil, err
	}
	o.Status = string(next)

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   audit.ActionOrderStatusChanged,
		Entity:   "order",
		EntityID: &o.ID,
		Metadata: map[string]string{"from": string(prev), "to": string(next)},
	})

	if err := uc.publisher.Publish(ctx, events.New(events.TypeOrderStatusChanged, o.ID, map[string]string{
		"from": string(prev),
		"to":   string(next),
	})); err != nil {
		uc.log.Warn("publish order event failed", zap.Uint("order_id", o.ID), zap.Error(err))
	}

	return o, nil
}

func loadOrder(ctx context.Context, repo payment.Repository, id uint) (*models.Order, error) {
	o, err := repo.GetOrder(ctx, id)
	if errors.Is(err, payment.ErrNotFound) {
		return nil, httperr.ErrNotFound("order_not_found")
	}
	return o, err
}
