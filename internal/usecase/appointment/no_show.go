package appointment

import (
	"context"

	"github.com/smallbiz/booking-core/internal/audit"
	domain "github.com/smallbiz/booking-core/internal/domain/appointment"
	"github.com/smallbiz/booking-core/internal/models"
)

type MarkNoShow struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkNoShow(repo domain.Repository, audit *audit.Dispatcher) *MarkNoShow {
	return &MarkNoShow{repo: repo, audit: audit}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.MarkNoShow(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   audit.ActionAppointmentNoShow,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
