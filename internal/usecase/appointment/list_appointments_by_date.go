package appointment

import (
	"context"
	"time"

	domain "github.com/smallbiz/booking-core/internal/domain/appointment"
	"github.com/smallbiz/booking-core/internal/dto"
	"github.com/smallbiz/booking-core/internal/models"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	loc *time.Location,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
		loc:  loc,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	d := date.In(uc.loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, uc.loc)
	end := start.AddDate(0, 0, 1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return toListDTO(appointments), nil
}

func toListDTO(appointments []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		item := dto.AppointmentListDTO{
			ID:        ap.ID,
			StartTime: ap.AppointmentDate,
			EndTime:   ap.EndTime(),
			Status:    ap.Status,
			Price:     ap.Price.StringFixed(2),
		}
		if ap.Customer != nil {
			item.CustomerName = ap.Customer.Name
			item.CustomerEmail = ap.Customer.Email
		}
		if ap.Service != nil {
			item.ServiceName = ap.Service.Name
		}
		out = append(out, item)
	}
	return out
}
