package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiz/booking-core/internal/domain/order"
	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/domain/payment/paymenttest"
)

func newLifecycle(repo domain.Repository, pub *recordingPublisher) *Lifecycle {
	completedUC := newCheckoutCompleted(repo, relaxedNotifier(), pub)
	refunded := NewHandleChargeRefunded(repo, pub, nop())
	refunded.now = func() time.Time { return fixedNow }

	return NewLifecycle(
		completedUC,
		NewHandlePaymentSucceeded(repo, nop()),
		NewHandlePaymentFailed(repo, pub, nop()),
		refunded,
		nop(),
	)
}

func TestChargeRefundedForUnknownPaymentIsNoop(t *testing.T) {
	repo := seededRepo()
	pub := &recordingPublisher{}

	err := newLifecycle(repo, pub).Dispatch(context.Background(), &domain.WebhookEvent{
		ID:              "evt_1",
		Type:            domain.EventChargeRefunded,
		ChargeID:        "ch_unknown",
		PaymentIntentID: "pi_unknown",
	})
	require.NoError(t, err)
	assert.Empty(t, repo.Payments)
	assert.Empty(t, repo.Orders)
	assert.Empty(t, pub.events)
}

func TestChargeRefundedFallsBackToIntentAndStampsCharge(t *testing.T) {
	repo := seededRepo()
	paidOrder(repo, order.StatusDelivered, domain.StatusCompleted)
	pub := &recordingPublisher{}
	lc := newLifecycle(repo, pub)

	ev := &domain.WebhookEvent{ID: "evt_2", Type: domain.EventChargeRefunded, ChargeID: "ch_1", PaymentIntentID: "pi_1"}
	require.NoError(t, lc.Dispatch(context.Background(), ev))

	p := repo.Payments[60]
	assert.Equal(t, string(domain.StatusRefunded), p.Status)
	assert.Equal(t, "ch_1", p.StripeChargeID)
	assert.Equal(t, fixedNow, *p.RefundedAt)
	assert.Equal(t, string(order.StatusRefunded), repo.Orders[50].Status)

	// redelivery finds the payment by charge id and changes nothing
	require.NoError(t, lc.Dispatch(context.Background(), ev))
	assert.Len(t, pub.events, 1)
}

func TestPaymentFailedCascade(t *testing.T) {
	repo := seededRepo()
	paidOrder(repo, order.StatusPending, domain.StatusPending)
	pub := &recordingPublisher{}

	err := newLifecycle(repo, pub).Dispatch(context.Background(), &domain.WebhookEvent{
		ID: "evt_3", Type: domain.EventPaymentFailed, PaymentIntentID: "pi_1",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusFailed), repo.Payments[60].Status)
	assert.Equal(t, string(order.StatusCancelled), repo.Orders[50].Status)
	assert.Equal(t, []string{"payment.failed"}, pub.types())
}

func TestPaymentFailedLeavesCompletedPaymentAlone(t *testing.T) {
	repo := seededRepo()
	paidOrder(repo, order.StatusShipped, domain.StatusCompleted)
	pub := &recordingPublisher{}

	err := newLifecycle(repo, pub).Dispatch(context.Background(), &domain.WebhookEvent{
		ID: "evt_4", Type: domain.EventPaymentFailed, PaymentIntentID: "pi_1",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), repo.Payments[60].Status)
	assert.Equal(t, string(order.StatusShipped), repo.Orders[50].Status)
	assert.Empty(t, pub.events)
}

func TestPaymentFailedForUnknownIntentIsNoop(t *testing.T) {
	repo := paymenttest.NewRepo()
	err := newLifecycle(repo, &recordingPublisher{}).Dispatch(context.Background(), &domain.WebhookEvent{
		ID: "evt_5", Type: domain.EventPaymentFailed, PaymentIntentID: "pi_x",
	})
	assert.NoError(t, err)
}

func TestPaymentSucceededCompletesPending(t *testing.T) {
	repo := seededRepo()
	paidOrder(repo, order.StatusPending, domain.StatusPending)

	err := newLifecycle(repo, &recordingPublisher{}).Dispatch(context.Background(), &domain.WebhookEvent{
		ID: "evt_6", Type: domain.EventPaymentSucceeded, PaymentIntentID: "pi_1",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), repo.Payments[60].Status)
}

func TestDispatchAcknowledgesUnreadableCheckout(t *testing.T) {
	repo := seededRepo()
	err := newLifecycle(repo, &recordingPublisher{}).Dispatch(context.Background(), &domain.WebhookEvent{
		ID:      "evt_7",
		Type:    domain.EventCheckoutCompleted,
		Session: completed("cs_bad", map[string]string{domain.MetaItems: "nope"}),
	})
	assert.NoError(t, err)
	assert.Empty(t, repo.Orders)
}

func TestDispatchIgnoresUnknownTypes(t *testing.T) {
	err := newLifecycle(seededRepo(), &recordingPublisher{}).Dispatch(context.Background(), &domain.WebhookEvent{
		ID: "evt_8", Type: "customer.created",
	})
	assert.NoError(t, err)
}

func TestIntentEventsLeaveCheckoutPaymentAlone(t *testing.T) {
	repo := seededRepo()
	pub := &recordingPublisher{}
	lc := newLifecycle(repo, pub)
	ctx := context.Background()

	require.NoError(t, lc.Dispatch(ctx, &domain.WebhookEvent{
		ID:   "evt_10",
		Type: domain.EventCheckoutCompleted,
		Session: completed("cs_10", map[string]string{
			domain.MetaItems: `[{"type":"product","id":7,"quantity":1}]`,
		}),
	}))
	o, err := repo.FindOrderBySessionID(ctx, "cs_10")
	require.NoError(t, err)

	// a late failure for the same intent arrives after the session completed
	require.NoError(t, lc.Dispatch(ctx, &domain.WebhookEvent{ID: "evt_11", Type: domain.EventPaymentFailed, PaymentIntentID: "pi_1"}))
	require.NoError(t, lc.Dispatch(ctx, &domain.WebhookEvent{ID: "evt_12", Type: domain.EventPaymentSucceeded, PaymentIntentID: "pi_1"}))

	p, err := repo.FindPaymentByIntentID(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), p.Status)
	assert.Equal(t, string(order.StatusProcessing), repo.Orders[o.ID].Status)
	assert.Equal(t, []string{"order.created"}, pub.types())
}
