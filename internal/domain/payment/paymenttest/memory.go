// Package paymenttest provides in-memory doubles for the payment domain.
package paymenttest

import (
	"context"
	"fmt"
	"sort"

	"github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/models"
)

// Repo is a map-backed payment.Repository. WithinTx restores the previous
// state when fn fails.
type Repo struct {
	Products     map[uint]models.Product
	Services     map[uint]models.Service
	Customers    map[uint]models.Customer
	Appointments map[uint]models.Appointment
	Orders       map[uint]models.Order
	Payments     map[uint]models.Payment

	nextID uint
}

func NewRepo() *Repo {
	return &Repo{
		Products:     map[uint]models.Product{},
		Services:     map[uint]models.Service{},
		Customers:    map[uint]models.Customer{},
		Appointments: map[uint]models.Appointment{},
		Orders:       map[uint]models.Order{},
		Payments:     map[uint]models.Payment{},
		nextID:       1000,
	}
}

func (r *Repo) id() uint {
	r.nextID++
	return r.nextID
}

// -------- Catalog --------

func (r *Repo) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	p, ok := r.Products[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	return &p, nil
}

func (r *Repo) GetService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := r.Services[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	return &s, nil
}

func (r *Repo) GetCustomer(_ context.Context, id uint) (*models.Customer, error) {
	c, ok := r.Customers[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	return &c, nil
}

// -------- Appointment --------

func (r *Repo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := r.Appointments[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	return &ap, nil
}

func (r *Repo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if _, ok := r.Appointments[ap.ID]; !ok {
		return payment.ErrNotFound
	}
	r.Appointments[ap.ID] = *ap
	return nil
}

// -------- Order --------

func (r *Repo) CreateOrder(_ context.Context, o *models.Order) error {
	if o.CheckoutSessionID != nil {
		for _, existing := range r.Orders {
			if existing.CheckoutSessionID != nil && *existing.CheckoutSessionID == *o.CheckoutSessionID {
				return payment.ErrDuplicate
			}
		}
	}

	o.ID = r.id()
	items := make([]models.OrderItem, len(o.Items))
	for i, it := range o.Items {
		it.ID = r.id()
		it.OrderID = o.ID
		items[i] = it
	}
	o.Items = items

	stored := *o
	stored.Payments = nil
	r.Orders[o.ID] = stored
	return nil
}

func (r *Repo) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	o, ok := r.Orders[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	o.Payments = r.paymentsOf(id)
	return &o, nil
}

func (r *Repo) FindOrderBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	for id, o := range r.Orders {
		if o.CheckoutSessionID != nil && *o.CheckoutSessionID == sessionID {
			return r.GetOrder(ctx, id)
		}
	}
	return nil, payment.ErrNotFound
}

func (r *Repo) UpdateOrderStatus(_ context.Context, id uint, status string) error {
	o, ok := r.Orders[id]
	if !ok {
		return payment.ErrNotFound
	}
	o.Status = status
	r.Orders[id] = o
	return nil
}

// -------- Payment --------

func (r *Repo) CreatePayment(_ context.Context, p *models.Payment) error {
	if p.TransactionID != nil {
		for _, existing := range r.Payments {
			if existing.TransactionID != nil && *existing.TransactionID == *p.TransactionID {
				return payment.ErrDuplicate
			}
		}
	}
	p.ID = r.id()
	r.Payments[p.ID] = *p
	return nil
}

func (r *Repo) GetPayment(_ context.Context, id uint) (*models.Payment, error) {
	p, ok := r.Payments[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	return &p, nil
}

func (r *Repo) FindPaymentByOrderID(_ context.Context, orderID uint) (*models.Payment, error) {
	ps := r.paymentsOf(orderID)
	if len(ps) == 0 {
		return nil, payment.ErrNotFound
	}
	latest := ps[len(ps)-1]
	return &latest, nil
}

func (r *Repo) FindPaymentByTransactionID(_ context.Context, transactionID string) (*models.Payment, error) {
	return r.findPayment(func(p models.Payment) bool {
		return p.TransactionID != nil && *p.TransactionID == transactionID
	})
}

func (r *Repo) FindPaymentByIntentID(_ context.Context, intentID string) (*models.Payment, error) {
	return r.findPayment(func(p models.Payment) bool { return p.StripePaymentIntentID == intentID })
}

func (r *Repo) FindPaymentByChargeID(_ context.Context, chargeID string) (*models.Payment, error) {
	return r.findPayment(func(p models.Payment) bool { return p.StripeChargeID == chargeID })
}

func (r *Repo) UpdatePayment(_ context.Context, p *models.Payment) error {
	if _, ok := r.Payments[p.ID]; !ok {
		return payment.ErrNotFound
	}
	r.Payments[p.ID] = *p
	return nil
}

func (r *Repo) WithinTx(_ context.Context, fn func(tx payment.Repository) error) error {
	snapshot := r.clone()
	if err := fn(r); err != nil {
		*r = *snapshot
		return err
	}
	return nil
}

// -------- helpers --------

func (r *Repo) findPayment(match func(models.Payment) bool) (*models.Payment, error) {
	ids := make([]uint, 0, len(r.Payments))
	for id := range r.Payments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if p := r.Payments[id]; match(p) {
			return &p, nil
		}
	}
	return nil, payment.ErrNotFound
}

func (r *Repo) paymentsOf(orderID uint) []models.Payment {
	var out []models.Payment
	for _, p := range r.Payments {
		if p.OrderID != nil && *p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Repo) clone() *Repo {
	c := &Repo{
		Products:     copyMap(r.Products),
		Services:     copyMap(r.Services),
		Customers:    copyMap(r.Customers),
		Appointments: copyMap(r.Appointments),
		Orders:       copyMap(r.Orders),
		Payments:     copyMap(r.Payments),
		nextID:       r.nextID,
	}
	return c
}

func copyMap[V any](in map[uint]V) map[uint]V {
	out := make(map[uint]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Provider records checkout and refund calls.
type Provider struct {
	Requests  []payment.SessionRequest
	Refunded  []string
	CreateErr error
	RefundErr error
}

func (p *Provider) CreateCheckoutSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	if p.CreateErr != nil {
		return nil, p.CreateErr
	}
	p.Requests = append(p.Requests, req)
	id := fmt.Sprintf("cs_test_%d", len(p.Requests))
	return &payment.Session{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (p *Provider) Refund(_ context.Context, intentID string) (string, error) {
	if p.RefundErr != nil {
		return "", p.RefundErr
	}
	p.Refunded = append(p.Refunded, intentID)
	return fmt.Sprintf("re_%d", len(p.Refunded)), nil
}
