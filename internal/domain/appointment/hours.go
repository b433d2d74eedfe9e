package appointment

import (
	"time"

	"github.com/smallbiz/booking-core/internal/timezone"
)

// BusinessHours is the fixed daily booking window.
type BusinessHours struct {
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
	Step        time.Duration
}

var DefaultBusinessHours = BusinessHours{
	OpenHour:  9,
	CloseHour: 17,
	Step:      30 * time.Minute,
}

func (h BusinessHours) Bounds(day time.Time) (time.Time, time.Time) {
	return timezone.At(day, h.OpenHour, h.OpenMinute), timezone.At(day, h.CloseHour, h.CloseMinute)
}

// Contains reports whether [start, end) fits inside the window of start's day.
func (h BusinessHours) Contains(start, end time.Time) bool {
	open, close := h.Bounds(start)
	return !start.Before(open) && !end.After(close)
}

// FetchWindow widens the day backwards so appointments that began before
// opening but still run into it are loaded too.
func (h BusinessHours) FetchWindow(day time.Time) (time.Time, time.Time) {
	open, close := h.Bounds(day)
	return open.Add(-24 * time.Hour), close
}
