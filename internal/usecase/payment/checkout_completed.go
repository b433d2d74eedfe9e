package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/smallbiz/booking-core/internal/domain/appointment"
	"github.com/smallbiz/booking-core/internal/domain/order"
	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/events"
	"github.com/smallbiz/booking-core/internal/httperr"
	"github.com/smallbiz/booking-core/internal/models"
)

type HandleCheckoutCompleted struct {
	repo      domain.Repository
	notifier  Notifier
	publisher events.Publisher
	log       *zap.Logger

	now func() time.Time
}

func NewHandleCheckoutCompleted(
	repo domain.Repository,
	notifier Notifier,
	publisher events.Publisher,
	log *zap.Logger,
) *HandleCheckoutCompleted {
	return &HandleCheckoutCompleted{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Execute turns a paid checkout into an order and a completed payment.
// Redelivery of the same session is a no-op returning the existing order.
func (uc *HandleCheckoutCompleted) Execute(
	ctx context.Context,
	s *domain.CompletedSession,
) (*models.Order, error) {

	meta, err := domain.DecodeMetadata(s.Metadata)
	if err != nil {
		uc.log.Warn("checkout metadata unreadable", zap.String("session_id", s.ID), zap.Error(err))
		return nil, httperr.ErrValidation("invalid_metadata")
	}

	var (
		o         *models.Order
		p         *models.Payment
		duplicate bool
	)

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 1. Idempotency on the session id
		// --------------------------------------------------
		if _, err := tx.FindPaymentByTransactionID(ctx, s.ID); err == nil {
			duplicate = true
			return nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		// --------------------------------------------------
		// 2. Order + snapshot items
		// --------------------------------------------------
		customerID := meta.CustomerID
		if customerID != nil {
			if _, err := tx.GetCustomer(ctx, *customerID); errors.Is(err, domain.ErrNotFound) {
				uc.log.Warn("checkout customer missing", zap.Uint("customer_id", *customerID))
				customerID = nil
			} else if err != nil {
				return err
			}
		}

		total := domain.FromMinor(s.AmountTotal)
		subtotal := domain.FromMinor(s.AmountSubtotal)
		if s.AmountSubtotal == 0 {
			subtotal = total
		}

		sessionID := s.ID
		o = &models.Order{
			OrderNumber:       order.NewOrderNumber(uc.now()),
			CustomerID:        customerID,
			Status:            string(order.StatusProcessing),
			Subtotal:          subtotal,
			Tax:               domain.FromMinor(s.AmountTax),
			Shipping:          domain.FromMinor(s.AmountShipping),
			Discount:          domain.FromMinor(s.AmountDiscount),
			Total:             total,
			Currency:          strings.ToLower(s.Currency),
			CheckoutSessionID: &sessionID,
		}

		items, err := uc.snapshotItems(ctx, tx, meta.Items)
		if err != nil {
			return err
		}
		o.Items = items

		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}

		// --------------------------------------------------
		// 3. Completed payment
		// --------------------------------------------------
		p = &models.Payment{
			OrderID:               &o.ID,
			Amount:                total,
			Currency:              o.Currency,
			Status:                string(domain.StatusCompleted),
			PaymentMethod:         "card",
			TransactionID:         &sessionID,
			StripePaymentIntentID: s.PaymentIntentID,
			Metadata:              toJSONMap(s.Metadata),
		}
		if err := tx.CreatePayment(ctx, p); err != nil {
			return err
		}

		// --------------------------------------------------
		// 4. Embedded appointment
		// --------------------------------------------------
		if meta.AppointmentID != nil {
			return uc.confirmAppointment(ctx, tx, *meta.AppointmentID, meta.Items)
		}
		return nil
	})

	if errors.Is(err, domain.ErrDuplicate) {
		duplicate, err = true, nil
	}
	if err != nil {
		return nil, err
	}

	if duplicate {
		uc.log.Info("checkout session already processed", zap.String("session_id", s.ID))
		existing, err := uc.repo.FindOrderBySessionID(ctx, s.ID)
		if errors.Is(err, domain.ErrNotFound) {
			// the conflict was not this session's order, so let the provider retry
			return nil, fmt.Errorf("checkout session %s: duplicate without order", s.ID)
		}
		if err != nil {
			return nil, err
		}
		return existing, nil
	}

	// --------------------------------------------------
	// 5. After commit
	// --------------------------------------------------
	publish(ctx, uc.publisher, uc.log, events.New(events.TypeOrderCreated, o.ID, map[string]any{
		"orderNumber": o.OrderNumber,
		"total":       o.Total.StringFixed(2),
		"currency":    o.Currency,
	}))

	if to := recipient(ctx, uc.repo, o.CustomerID, s.CustomerEmail); to != nil {
		if err := uc.notifier.OrderConfirmation(ctx, to, o); err != nil {
			uc.log.Warn("order confirmation email failed", zap.Uint("order_id", o.ID), zap.Error(err))
		}
		if err := uc.notifier.PaymentReceipt(ctx, to, o, p); err != nil {
			uc.log.Warn("payment receipt email failed", zap.Uint("order_id", o.ID), zap.Error(err))
		}
	}

	return o, nil
}

func (uc *HandleCheckoutCompleted) snapshotItems(
	ctx context.Context,
	tx domain.Repository,
	items []domain.CheckoutItem,
) ([]models.OrderItem, error) {

	out := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		if it.Type != domain.ItemTypeProduct {
			continue
		}

		product, err := tx.GetProduct(ctx, it.ID)
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warn("checkout product missing, skipping item", zap.Uint("product_id", it.ID))
			continue
		}
		if err != nil {
			return nil, err
		}

		out = append(out, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			SKU:         product.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}
	return out, nil
}

func (uc *HandleCheckoutCompleted) confirmAppointment(
	ctx context.Context,
	tx domain.Repository,
	id uint,
	items []domain.CheckoutItem,
) error {

	ap, err := tx.GetAppointment(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		uc.log.Warn("checkout appointment missing", zap.Uint("appointment_id", id))
		return nil
	}
	if err != nil {
		return err
	}

	if appointment.Status(ap.Status) != appointment.StatusPending {
		return nil
	}

	if !domain.CoversService(items, ap.ServiceID) {
		uc.log.Warn("checkout did not pay for the appointment service",
			zap.Uint("appointment_id", id),
			zap.Uint("service_id", ap.ServiceID),
		)
		return nil
	}

	if err := appointment.Confirm(ap); err != nil {
		return err
	}
	return tx.UpdateAppointment(ctx, ap)
}

func toJSONMap(in map[string]string) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for k, v := range in {
		out[k] = v
	}
	return out
}
