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

	"github.com/smallbiz/booking-core/internal/domain/appointment"
	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/domain/payment/paymenttest"
	"github.com/smallbiz/booking-core/internal/httperr"
	"github.com/smallbiz/booking-core/internal/models"
)

func TestCreateCheckoutSessionPricesFromCatalog(t *testing.T) {
	repo := seededRepo()
	provider := &paymenttest.Provider{}
	uc := NewCreateCheckoutSession(repo, provider, "USD")

	out, err := uc.Execute(context.Background(), CheckoutInput{
		Items: []domain.CheckoutItem{
			{Type: domain.ItemTypeProduct, ID: 7, Quantity: 2},
			{Type: domain.ItemTypeService, ID: 1, Quantity: 1},
		},
		CustomerID: uintPtr(3),
		SuccessURL: "https://shop.example/ok",
		CancelURL:  "https://shop.example/cancel",
		Metadata:   map[string]string{"source": "web", domain.MetaCustomerID: "999"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", out.SessionID)
	assert.NotEmpty(t, out.URL)

	require.Len(t, provider.Requests, 1)
	req := provider.Requests[0]
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, domain.LineItem{Name: "Shampoo", UnitAmount: 2000, Quantity: 2}, req.LineItems[0])
	assert.Equal(t, domain.LineItem{Name: "Haircut", UnitAmount: 3000, Quantity: 1}, req.LineItems[1])

	assert.Equal(t, "web", req.Metadata["source"])
	assert.Equal(t, "3", req.Metadata[domain.MetaCustomerID])
	assert.JSONEq(t,
		`[{"type":"product","id":7,"quantity":2},{"type":"service","id":1,"quantity":1}]`,
		req.Metadata[domain.MetaItems],
	)
}

func TestCreateCheckoutSessionDropsReservedCallerMetadata(t *testing.T) {
	provider := &paymenttest.Provider{}

	_, err := NewCreateCheckoutSession(seededRepo(), provider, "usd").Execute(context.Background(), CheckoutInput{
		Items: []domain.CheckoutItem{{Type: domain.ItemTypeProduct, ID: 7, Quantity: 1}},
		Metadata: map[string]string{
			"source":                 "web",
			domain.MetaCustomerID:    "3",
			domain.MetaAppointmentID: "5",
		},
	})
	require.NoError(t, err)

	meta := provider.Requests[0].Metadata
	assert.Equal(t, "web", meta["source"])
	assert.NotContains(t, meta, domain.MetaCustomerID)
	assert.NotContains(t, meta, domain.MetaAppointmentID)
}

func TestCreateCheckoutSessionErrors(t *testing.T) {
	repo := seededRepo()
	repo.Appointments[5] = models.Appointment{ID: 5, ServiceID: 1, Status: string(appointment.StatusConfirmed)}

	uc := NewCreateCheckoutSession(repo, &paymenttest.Provider{}, "usd")
	ctx := context.Background()

	_, err := uc.Execute(ctx, CheckoutInput{})
	assert.Equal(t, "empty_cart", httperr.CodeOf(err))

	_, err = uc.Execute(ctx, CheckoutInput{Items: []domain.CheckoutItem{{Type: domain.ItemTypeProduct, ID: 99, Quantity: 1}}})
	assert.Equal(t, "product_not_found", httperr.CodeOf(err))

	_, err = uc.Execute(ctx, CheckoutInput{
		Items:         []domain.CheckoutItem{{Type: domain.ItemTypeService, ID: 1, Quantity: 1}},
		AppointmentID: uintPtr(5),
	})
	assert.Equal(t, "appointment_not_payable", httperr.CodeOf(err))

	repo.Appointments[6] = models.Appointment{ID: 6, ServiceID: 1, Status: string(appointment.StatusPending)}
	_, err = uc.Execute(ctx, CheckoutInput{
		Items:         []domain.CheckoutItem{{Type: domain.ItemTypeProduct, ID: 7, Quantity: 1}},
		AppointmentID: uintPtr(6),
	})
	assert.Equal(t, "appointment_service_missing", httperr.CodeOf(err))

	failing := NewCreateCheckoutSession(repo, &paymenttest.Provider{CreateErr: errors.New("stripe down")}, "usd")
	_, err = failing.Execute(ctx, CheckoutInput{Items: []domain.CheckoutItem{{Type: domain.ItemTypeProduct, ID: 7, Quantity: 1}}})
	assert.Equal(t, httperr.KindExternalProvider, httperr.KindOf(err))
	assert.Equal(t, "checkout_session_failed", httperr.CodeOf(err))
}

func TestCreateCheckoutSessionChargesAppointmentPrice(t *testing.T) {
	repo := seededRepo()
	repo.Appointments[5] = models.Appointment{
		ID: 5, ServiceID: 1, Price: decimal.RequireFromString("25.00"), Status: string(appointment.StatusPending),
	}
	provider := &paymenttest.Provider{}

	_, err := NewCreateCheckoutSession(repo, provider, "usd").Execute(context.Background(), CheckoutInput{
		Items: []domain.CheckoutItem{
			{Type: domain.ItemTypeService, ID: 1, Quantity: 1},
			{Type: domain.ItemTypeProduct, ID: 7, Quantity: 1},
		},
		AppointmentID: uintPtr(5),
	})
	require.NoError(t, err)

	require.Len(t, provider.Requests, 1)
	assert.Equal(t, domain.LineItem{Name: "Haircut", UnitAmount: 2500, Quantity: 1}, provider.Requests[0].LineItems[0])
	assert.Equal(t, "5", provider.Requests[0].Metadata[domain.MetaAppointmentID])
}

func completed(sessionID string, meta map[string]string) *domain.CompletedSession {
	return &domain.CompletedSession{
		ID:              sessionID,
		AmountTotal:     4000,
		AmountSubtotal:  4000,
		Currency:        "usd",
		PaymentIntentID: "pi_1",
		Metadata:        meta,
	}
}

func newCheckoutCompleted(repo domain.Repository, n Notifier, pub *recordingPublisher) *HandleCheckoutCompleted {
	uc := NewHandleCheckoutCompleted(repo, n, pub, nop())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestHandleCheckoutCompletedCreatesOrder(t *testing.T) {
	repo := seededRepo()
	notifier := relaxedNotifier()
	pub := &recordingPublisher{}

	o, err := newCheckoutCompleted(repo, notifier, pub).Execute(context.Background(), completed("cs_1", map[string]string{
		domain.MetaCustomerID: "3",
		domain.MetaItems:      `[{"type":"product","id":7,"quantity":2}]`,
	}))
	require.NoError(t, err)

	assert.Equal(t, "40.00", o.Total.StringFixed(2))
	assert.Equal(t, "40.00", o.Subtotal.StringFixed(2))
	assert.Equal(t, "PROCESSING", o.Status)
	assert.Regexp(t, `^ORD-20260310-[0-9A-F]{8}$`, o.OrderNumber)

	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "20.00", o.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "40.00", o.Items[0].Subtotal.StringFixed(2))

	p, err := repo.FindPaymentByTransactionID(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), p.Status)
	assert.Equal(t, "pi_1", p.StripePaymentIntentID)
	assert.Equal(t, "card", p.PaymentMethod)
	assert.Equal(t, o.ID, *p.OrderID)

	assert.Equal(t, []string{"order.created"}, pub.types())
	notifier.AssertNumberOfCalls(t, "OrderConfirmation", 1)
	notifier.AssertNumberOfCalls(t, "PaymentReceipt", 1)
}

func TestHandleCheckoutCompletedIsIdempotent(t *testing.T) {
	repo := seededRepo()
	notifier := relaxedNotifier()
	pub := &recordingPublisher{}
	uc := newCheckoutCompleted(repo, notifier, pub)

	session := completed("cs_dup", map[string]string{domain.MetaItems: `[{"type":"product","id":7,"quantity":2}]`})

	first, err := uc.Execute(context.Background(), session)
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.Orders, 1)
	assert.Len(t, repo.Payments, 1)
	assert.Len(t, pub.events, 1)
}

func TestHandleCheckoutCompletedConfirmsAppointment(t *testing.T) {
	repo := seededRepo()
	repo.Appointments[5] = models.Appointment{ID: 5, ServiceID: 1, Status: string(appointment.StatusPending)}

	_, err := newCheckoutCompleted(repo, relaxedNotifier(), &recordingPublisher{}).Execute(context.Background(),
		completed("cs_ap", map[string]string{
			domain.MetaAppointmentID: "5",
			domain.MetaItems:         `[{"type":"service","id":1,"quantity":1}]`,
		}))
	require.NoError(t, err)

	assert.Equal(t, string(appointment.StatusConfirmed), repo.Appointments[5].Status)
}

func TestHandleCheckoutCompletedLeavesUnpaidAppointmentPending(t *testing.T) {
	repo := seededRepo()
	repo.Products[8] = models.Product{ID: 8, Name: "Sticker", Price: decimal.RequireFromString("1.00"), Active: true}
	repo.Appointments[5] = models.Appointment{ID: 5, ServiceID: 1, Status: string(appointment.StatusPending)}

	session := completed("cs_cheap", map[string]string{
		domain.MetaAppointmentID: "5",
		domain.MetaItems:         `[{"type":"product","id":8,"quantity":1}]`,
	})
	session.AmountTotal, session.AmountSubtotal = 100, 100

	o, err := newCheckoutCompleted(repo, relaxedNotifier(), &recordingPublisher{}).Execute(context.Background(), session)
	require.NoError(t, err)

	assert.NotZero(t, o.ID)
	assert.Equal(t, string(appointment.StatusPending), repo.Appointments[5].Status)
}

func TestHandleCheckoutCompletedRetriesForeignConflict(t *testing.T) {
	repo := &conflictingRepo{Repo: seededRepo()}

	o, err := newCheckoutCompleted(repo, relaxedNotifier(), &recordingPublisher{}).Execute(context.Background(),
		completed("cs_clash", map[string]string{domain.MetaItems: `[{"type":"product","id":7,"quantity":1}]`}))

	require.Error(t, err)
	assert.Nil(t, o)
	assert.Equal(t, httperr.KindUnknown, httperr.KindOf(err))
	assert.Empty(t, repo.Orders)
}

func TestHandleCheckoutCompletedSkipsUnknownProducts(t *testing.T) {
	repo := seededRepo()

	o, err := newCheckoutCompleted(repo, relaxedNotifier(), &recordingPublisher{}).Execute(context.Background(),
		completed("cs_x", map[string]string{domain.MetaItems: `[{"type":"product","id":404,"quantity":1}]`}))
	require.NoError(t, err)
	assert.Empty(t, o.Items)
}

func TestHandleCheckoutCompletedRejectsBadMetadata(t *testing.T) {
	repo := seededRepo()

	_, err := newCheckoutCompleted(repo, relaxedNotifier(), &recordingPublisher{}).Execute(context.Background(),
		completed("cs_bad", map[string]string{domain.MetaItems: "{"}))
	assert.Equal(t, "invalid_metadata", httperr.CodeOf(err))
	assert.Empty(t, repo.Orders)
}

func TestHandleCheckoutCompletedEmailFailureIsNotFatal(t *testing.T) {
	repo := seededRepo()
	notifier := &MockNotifier{}
	notifier.On("OrderConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	notifier.On("PaymentReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	session := completed("cs_mail", nil)
	session.CustomerEmail = "guest@example.com"

	o, err := newCheckoutCompleted(repo, notifier, &recordingPublisher{}).Execute(context.Background(), session)
	require.NoError(t, err)
	assert.NotZero(t, o.ID)

	notifier.AssertCalled(t, "OrderConfirmation", mock.Anything, mock.MatchedBy(func(c *models.Customer) bool {
		return c.Email == "guest@example.com"
	}), mock.Anything)
}
