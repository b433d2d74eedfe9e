package order

import (
	"context"

	"github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/models"
)

type GetOrder struct {
	repo payment.Repository
}

func NewGetOrder(repo payment.Repository) *GetOrder {
	return &GetOrder{repo: repo}
}

// Execute returns the order with its items and payments.
func (uc *GetOrder) Execute(ctx context.Context, id uint) (*models.Order, error) {
	return loadOrder(ctx, uc.repo, id)
}
