package appointment

import (
	"context"
	"errors"

	domain "github.com/smallbiz/booking-core/internal/domain/appointment"
	"github.com/smallbiz/booking-core/internal/httperr"
)

type GetAvailability struct {
	repo  domain.Repository
	hours domain.BusinessHours
}

func NewGetAvailability(repo domain.Repository, hours domain.BusinessHours) *GetAvailability {
	return &GetAvailability{repo: repo, hours: hours}
}

// Execute expects in.Date at any instant of the wanted day, already in
// the business location.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, error) {

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

	from, to := uc.hours.FetchWindow(in.Date)

	booked, err := uc.repo.ListActiveAppointments(ctx, svc.ID, from, to)
	if err != nil {
		return nil, err
	}

	return &domain.Availability{
		ServiceID: svc.ID,
		Date:      in.Date.Format("2006-01-02"),
		Slots:     domain.ComputeSlots(in.Date, svc, booked, uc.hours),
	}, nil
}
