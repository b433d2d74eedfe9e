package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/smallbiz/booking-core/internal/domain/appointment"
	"github.com/smallbiz/booking-core/internal/events"
	"github.com/smallbiz/booking-core/internal/httperr"
	"github.com/smallbiz/booking-core/internal/models"
	"github.com/smallbiz/booking-core/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ServiceID  uint
	CustomerID *uint

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Date  string // YYYY-MM-DD
	Time  string // HH:MM
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo      domain.Repository
	publisher events.Publisher
	notifier  Notifier
	hours     domain.BusinessHours
	loc       *time.Location
	log       *zap.Logger

	now func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	publisher events.Publisher,
	notifier Notifier,
	hours domain.BusinessHours,
	loc *time.Location,
	log *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
		hours:     hours,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Date / time in the business location
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(in.Date, in.Time, uc.loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time")
	}

	if start.Before(uc.now()) {
		return nil, httperr.ErrValidation("appointment_in_past")
	}

	// --------------------------------------------------
	// 2. Service
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, httperr.ErrValidation("service_inactive")
	}

	occupiedEnd := start.Add(svc.Duration() + svc.Buffer())
	if !uc.hours.Contains(start, occupiedEnd) {
		return nil, httperr.ErrValidation("outside_business_hours")
	}

	// --------------------------------------------------
	// 3. Customer
	// --------------------------------------------------
	customer, err := uc.resolveCustomer(ctx, in)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Capacity check + insert, serialized per service
	// --------------------------------------------------
	ap := &models.Appointment{
		ServiceID:       svc.ID,
		AppointmentDate: start,
		DurationMin:     svc.DurationMin,
		Price:           svc.Price,
		Status:          string(domain.InitialStatus(svc.Price)),
		Notes:           strings.TrimSpace(in.Notes),
	}
	if customer != nil {
		ap.CustomerID = &customer.ID
	}

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		locked, err := tx.LockService(ctx, svc.ID)
		if err != nil {
			return err
		}

		booked, err := tx.ListActiveAppointments(ctx, locked.ID, start.Add(-24*time.Hour), occupiedEnd)
		if err != nil {
			return err
		}

		if domain.OverlapCount(start, occupiedEnd, booked) >= locked.Capacity() {
			return httperr.ErrConflict("time_conflict")
		}

		return tx.CreateAppointment(ctx, ap)
	})
	if errors.Is(err, domain.ErrSlotTaken) {
		return nil, httperr.ErrConflict("time_conflict")
	}
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Side effects, after commit
	// --------------------------------------------------
	if err := uc.publisher.Publish(ctx, events.New(events.TypeAppointmentCreated, ap.ID, map[string]any{
		"serviceId": svc.ID,
		"status":    ap.Status,
		"startTime": ap.AppointmentDate,
	})); err != nil {
		uc.log.Warn("publish appointment event failed", zap.Uint("appointment_id", ap.ID), zap.Error(err))
	}

	if customer != nil && customer.Email != "" {
		if err := uc.notifier.AppointmentConfirmation(ctx, customer, ap, svc); err != nil {
			uc.log.Warn("appointment confirmation email failed",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
		}
	}

	ap.Service = svc
	ap.Customer = customer
	return ap, nil
}

func (uc *CreateAppointment) resolveCustomer(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Customer, error) {

	if in.CustomerID != nil {
		c, err := uc.repo.GetCustomer(ctx, *in.CustomerID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrNotFound("customer_not_found")
		}
		return c, err
	}

	email := strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	if email == "" {
		return nil, nil
	}

	return uc.repo.GetOrCreateCustomer(
		ctx,
		strings.TrimSpace(in.CustomerName),
		email,
		strings.TrimSpace(in.CustomerPhone),
	)
}
