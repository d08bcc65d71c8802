// Package stats derives booking statistics and time helpers from cached
// collections. Every function is pure.
package stats

import (
	"cmp"
	"slices"
	"time"

	"venuebook/internal/bookings/models"
)

const (
	dateLayout = "2006-01-02"

	// StandardType labels bookings without a booking type.
	StandardType = "Standard"
)

// Range restricts stats to bookings dated within [Start, End], inclusive,
// compared by calendar day. A zero Start means the epoch and a zero End
// means today.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r *Range) bounds(now time.Time) (string, string) {
	start := time.Unix(0, 0).UTC()
	end := now
	if !r.Start.IsZero() {
		start = r.Start
	}
	if !r.End.IsZero() {
		end = r.End
	}
	return start.Format(dateLayout), end.Format(dateLayout)
}

// Compute aggregates bookings. Booking types are reported by their raw value.
func Compute(bookings []models.Booking, r *Range) models.BookingStats {
	return compute(bookings, nil, r, time.Now())
}

// ComputeWithTypes aggregates bookings, reporting booking types by the name
// of the matching type when the booking stores a type id.
func ComputeWithTypes(bookings []models.Booking, types []models.BookingType, r *Range) models.BookingStats {
	return compute(bookings, types, r, time.Now())
}

func compute(bookings []models.Booking, types []models.BookingType, r *Range, now time.Time) models.BookingStats {
	out := models.EmptyStats()
	names := make(map[string]string, len(types))
	for _, t := range types {
		if t.ID != "" && t.Name != "" {
			names[t.ID] = t.Name
		}
	}

	var from, to string
	if r != nil {
		from, to = r.bounds(now)
	}

	for _, b := range bookings {
		day, dated := bookingDay(b.Date)
		if r != nil && (!dated || day < from || day > to) {
			continue
		}
		out.TotalBookings++
		out.TotalCovers += b.Guests

		switch b.Status {
		case models.StatusConfirmed:
			out.ConfirmedBookings++
		case models.StatusPending:
			out.PendingBookings++
		case models.StatusCancelled:
			out.CancelledBookings++
		case models.StatusNoShow, models.StatusNoShowLegacy:
			out.NoShowBookings++
		}

		if h, _, ok := parseClock(b.ArrivalTime); ok {
			out.PeakHours[twoDigits(h)]++
		}
		out.BookingsByType[typeName(b.BookingType, names)]++
		if dated {
			d, _ := time.Parse(dateLayout, day)
			out.BookingsByDay[d.Weekday().String()]++
		}
	}

	if out.TotalBookings > 0 {
		out.AveragePartySize = float64(out.TotalCovers) / float64(out.TotalBookings)
	}
	return out
}

func typeName(raw string, names map[string]string) string {
	if raw == "" {
		return StandardType
	}
	if name, ok := names[raw]; ok {
		return name
	}
	return raw
}

// bookingDay normalizes a booking date to YYYY-MM-DD. Full RFC 3339
// timestamps are accepted and keep the calendar day of their own offset.
func bookingDay(s string) (string, bool) {
	if _, err := time.Parse(dateLayout, s); err == nil {
		return s, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(dateLayout), true
	}
	return "", false
}

// BookingsOn returns the bookings dated date, ordered by arrival time.
func BookingsOn(bookings []models.Booking, date string) []models.Booking {
	out := make([]models.Booking, 0)
	for _, b := range bookings {
		if day, ok := bookingDay(b.Date); ok && day == date {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Booking) int {
		return cmp.Compare(minutesOf(a.ArrivalTime), minutesOf(b.ArrivalTime))
	})
	return out
}

func minutesOf(clock string) int {
	h, m, ok := parseClock(clock)
	if !ok {
		return -1
	}
	return h*60 + m
}
