package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smallbiz/booking-core/internal/domain/order"
	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/domain/payment/paymenttest"
	"github.com/smallbiz/booking-core/internal/httperr"
	"github.com/smallbiz/booking-core/internal/models"
)

// paidOrder seeds an order with one payment in the given states.
func paidOrder(repo *paymenttest.Repo, orderStatus order.Status, paymentStatus domain.Status) (models.Order, models.Payment) {
	o := models.Order{
		ID:          50,
		OrderNumber: "ORD-20260310-AAAAAAAA",
		CustomerID:  uintPtr(3),
		Status:      string(orderStatus),
		Total:       decimal.RequireFromString("40.00"),
		Currency:    "usd",
	}
	repo.Orders[o.ID] = o

	p := models.Payment{
		ID:                    60,
		OrderID:               uintPtr(o.ID),
		Amount:                decimal.RequireFromString("40.00"),
		Currency:              "usd",
		Status:                string(paymentStatus),
		TransactionID:         strPtr("cs_1"),
		StripePaymentIntentID: "pi_1",
	}
	repo.Payments[p.ID] = p
	return o, p
}

func newRefund(repo domain.Repository, provider domain.Provider, n Notifier, pub *recordingPublisher) *RefundPayment {
	uc := NewRefundPayment(repo, provider, n, pub, nil, nop())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestRefundPaymentCascades(t *testing.T) {
	repo := seededRepo()
	paidOrder(repo, order.StatusShipped, domain.StatusCompleted)
	provider := &paymenttest.Provider{}
	notifier := relaxedNotifier()
	pub := &recordingPublisher{}

	p, err := newRefund(repo, provider, notifier, pub).Execute(context.Background(), 1, RefundInput{OrderID: uintPtr(50)})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusRefunded), p.Status)
	assert.Equal(t, fixedNow, *p.RefundedAt)
	assert.Equal(t, string(order.StatusRefunded), repo.Orders[50].Status)
	assert.Equal(t, []string{"pi_1"}, provider.Refunded)
	assert.Equal(t, []string{"payment.refunded"}, pub.types())
	notifier.AssertCalled(t, "RefundNotice", mock.Anything, mock.MatchedBy(func(c *models.Customer) bool {
		return c.Email == "ana@example.com"
	}), mock.Anything, mock.Anything)
}

func TestRefundPaymentTwiceIsInvalidState(t *testing.T) {
	repo := seededRepo()
	paidOrder(repo, order.StatusProcessing, domain.StatusCompleted)
	provider := &paymenttest.Provider{}
	uc := newRefund(repo, provider, relaxedNotifier(), &recordingPublisher{})

	_, err := uc.Execute(context.Background(), 1, RefundInput{PaymentID: uintPtr(60)})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), 1, RefundInput{PaymentID: uintPtr(60)})
	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(err))
	assert.Equal(t, "payment_already_refunded", httperr.CodeOf(err))
	assert.Len(t, provider.Refunded, 1)
}

func TestRefundPaymentRejections(t *testing.T) {
	repo := seededRepo()
	paidOrder(repo, order.StatusPending, domain.StatusPending)
	uc := newRefund(repo, &paymenttest.Provider{}, relaxedNotifier(), &recordingPublisher{})
	ctx := context.Background()

	_, err := uc.Execute(ctx, 1, RefundInput{PaymentID: uintPtr(60)})
	assert.Equal(t, "payment_not_refundable", httperr.CodeOf(err))

	_, err = uc.Execute(ctx, 1, RefundInput{PaymentID: uintPtr(404)})
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	_, err = uc.Execute(ctx, 1, RefundInput{})
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}

func TestRefundPaymentProviderFailureLeavesStateUntouched(t *testing.T) {
	repo := seededRepo()
	paidOrder(repo, order.StatusProcessing, domain.StatusCompleted)
	pub := &recordingPublisher{}

	uc := newRefund(repo, &paymenttest.Provider{RefundErr: errors.New("card_declined")}, relaxedNotifier(), pub)

	_, err := uc.Execute(context.Background(), 1, RefundInput{PaymentID: uintPtr(60)})
	assert.Equal(t, httperr.KindExternalProvider, httperr.KindOf(err))
	assert.Equal(t, "refund_failed", httperr.CodeOf(err))

	assert.Equal(t, string(domain.StatusCompleted), repo.Payments[60].Status)
	assert.Equal(t, string(order.StatusProcessing), repo.Orders[50].Status)
	assert.Empty(t, pub.events)
}
