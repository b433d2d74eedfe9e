package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/smallbiz/booking-core/internal/audit"
	domain "github.com/smallbiz/booking-core/internal/domain/appointment"
	"github.com/smallbiz/booking-core/internal/events"
	"github.com/smallbiz/booking-core/internal/httperr"
	"github.com/smallbiz/booking-core/internal/models"
)

type CancelAppointment struct {
	repo      domain.Repository
	audit     *audit.Dispatcher
	publisher events.Publisher
	log       *zap.Logger

	now func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	publisher events.Publisher,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		repo:      repo,
		audit:     audit,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   audit.ActionAppointmentCancelled,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	if err := uc.publisher.Publish(ctx, events.New(events.TypeAppointmentCancelled, ap.ID, nil)); err != nil {
		uc.log.Warn("publish appointment event failed", zap.Uint("appointment_id", ap.ID), zap.Error(err))
	}

	return ap, nil
}

func loadAppointment(ctx context.Context, repo domain.Repository, id uint) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	return ap, err
}
