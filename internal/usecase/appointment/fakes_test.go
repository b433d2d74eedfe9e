package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	domain "github.com/smallbiz/booking-core/internal/domain/appointment"
	"github.com/smallbiz/booking-core/internal/events"
	"github.com/smallbiz/booking-core/internal/models"
)

// memoryRepo keeps rows in maps; WithinTx runs inline.
type memoryRepo struct {
	services     map[uint]*models.Service
	customers    map[uint]*models.Customer
	appointments []*models.Appointment

	locked    []uint
	createErr error
}

func newMemoryRepo(services ...*models.Service) *memoryRepo {
	r := &memoryRepo{
		services:  map[uint]*models.Service{},
		customers: map[uint]*models.Customer{},
	}
	for _, s := range services {
		r.services[s.ID] = s
	}
	return r
}

func (r *memoryRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memoryRepo) LockService(ctx context.Context, id uint) (*models.Service, error) {
	r.locked = append(r.locked, id)
	return r.GetService(ctx, id)
}

func (r *memoryRepo) GetCustomer(_ context.Context, id uint) (*models.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) GetOrCreateCustomer(_ context.Context, name, email, phone string) (*models.Customer, error) {
	for _, c := range r.customers {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	c := &models.Customer{ID: uint(len(r.customers) + 1), Name: name, Email: email, Phone: phone}
	r.customers[c.ID] = c
	return c, nil
}

func (r *memoryRepo) ListActiveAppointments(_ context.Context, serviceID uint, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ServiceID != serviceID || !domain.IsActive(ap) {
			continue
		}
		if ap.AppointmentDate.Before(from) || !ap.AppointmentDate.Before(to) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (r *memoryRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	ap.ID = uint(len(r.appointments) + 1)
	cp := *ap
	r.appointments = append(r.appointments, &cp)
	return nil
}

func (r *memoryRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.ID == id {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i, existing := range r.appointments {
		if existing.ID == ap.ID {
			cp := *ap
			r.appointments[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memoryRepo) ListAppointmentsForPeriod(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if !ap.AppointmentDate.Before(from) && ap.AppointmentDate.Before(to) {
			cp := *ap
			cp.Service = r.services[ap.ServiceID]
			if ap.CustomerID != nil {
				cp.Customer = r.customers[*ap.CustomerID]
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *memoryRepo) WithinTx(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AppointmentConfirmation(
	ctx context.Context,
	customer *models.Customer,
	ap *models.Appointment,
	svc *models.Service,
) error {
	args := m.Called(ctx, customer, ap, svc)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev events.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
