package appointment

import (
	"time"

	"github.com/smallbiz/booking-core/internal/models"
)

type AvailabilityInput struct {
	ServiceID uint
	Date      time.Time
}

type Slot struct {
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	Available         bool      `json:"available"`
	RemainingCapacity int       `json:"remainingCapacity"`
}

type Availability struct {
	ServiceID uint   `json:"serviceId"`
	Date      string `json:"date"`
	Slots     []Slot `json:"slots"`
}

func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// OverlapCount counts active appointments intersecting [start, end). Each
// appointment occupies its copied duration from its start.
func OverlapCount(start, end time.Time, booked []models.Appointment) int {
	n := 0
	for i := range booked {
		ap := &booked[i]
		if !IsActive(ap) {
			continue
		}
		if Overlaps(start, end, ap.AppointmentDate, ap.EndTime()) {
			n++
		}
	}
	return n
}

// RemainingCapacity is what is left of the service's per-slot capacity for
// a booking starting at start. The candidate occupies duration plus buffer.
func RemainingCapacity(svc *models.Service, start time.Time, booked []models.Appointment) int {
	end := start.Add(svc.Duration() + svc.Buffer())
	remaining := svc.Capacity() - OverlapCount(start, end, booked)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ComputeSlots walks the business window in fixed steps. Slots whose
// buffered end passes closing time are dropped.
func ComputeSlots(
	day time.Time,
	svc *models.Service,
	booked []models.Appointment,
	hours BusinessHours,
) []Slot {

	slots := make([]Slot, 0)

	duration := svc.Duration()
	if duration <= 0 || hours.Step <= 0 {
		return slots
	}

	open, close := hours.Bounds(day)
	occupied := duration + svc.Buffer()

	for start := open; !start.Add(occupied).After(close); start = start.Add(hours.Step) {
		remaining := RemainingCapacity(svc, start, booked)

		slots = append(slots, Slot{
			StartTime:         start,
			EndTime:           start.Add(duration),
			Available:         remaining > 0,
			RemainingCapacity: remaining,
		})
	}

	return slots
}
