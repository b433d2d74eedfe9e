package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/domain/payment/paymenttest"
	"github.com/smallbiz/booking-core/internal/events"
	"github.com/smallbiz/booking-core/internal/models"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) OrderConfirmation(ctx context.Context, customer *models.Customer, o *models.Order) error {
	return m.Called(ctx, customer, o).Error(0)
}

func (m *MockNotifier) PaymentReceipt(ctx context.Context, customer *models.Customer, o *models.Order, p *models.Payment) error {
	return m.Called(ctx, customer, o, p).Error(0)
}

func (m *MockNotifier) RefundNotice(ctx context.Context, customer *models.Customer, o *models.Order, p *models.Payment) error {
	return m.Called(ctx, customer, o, p).Error(0)
}

func relaxedNotifier() *MockNotifier {
	n := &MockNotifier{}
	n.On("OrderConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	n.On("PaymentReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	n.On("RefundNotice", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return n
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func seededRepo() *paymenttest.Repo {
	r := paymenttest.NewRepo()
	r.Products[7] = models.Product{ID: 7, Name: "Shampoo", SKU: "SH-1", Price: decimal.RequireFromString("20.00"), Active: true}
	r.Services[1] = models.Service{ID: 1, Name: "Haircut", Price: decimal.RequireFromString("30.00"), DurationMin: 60, MaxBookingsPerSlot: 1, Active: true}
	r.Customers[3] = models.Customer{ID: 3, Name: "Ana", Email: "ana@example.com"}
	return r
}

// conflictingRepo fails every order insert with a unique violation that
// does not belong to the session being processed.
type conflictingRepo struct {
	*paymenttest.Repo
}

func (r *conflictingRepo) CreateOrder(context.Context, *models.Order) error {
	return domain.ErrDuplicate
}

func (r *conflictingRepo) WithinTx(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.Repo.WithinTx(ctx, func(domain.Repository) error { return fn(r) })
}

func nop() *zap.Logger { return zap.NewNop() }

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint { return &v }
