package models

// BookingStats is derived from the booking collection and never persisted.
// OccupancyRate is a placeholder until a capacity source exists; it is always 0.
type BookingStats struct {
	TotalBookings     int            `json:"totalBookings"`
	ConfirmedBookings int            `json:"confirmedBookings"`
	PendingBookings   int            `json:"pendingBookings"`
	CancelledBookings int            `json:"cancelledBookings"`
	NoShowBookings    int            `json:"noShowBookings"`
	AveragePartySize  float64        `json:"averagePartySize"`
	TotalCovers       int            `json:"totalCovers"`
	PeakHours         map[string]int `json:"peakHours"`
	BookingsByType    map[string]int `json:"bookingsByType"`
	BookingsByDay     map[string]int `json:"bookingsByDay"`
	OccupancyRate     float64        `json:"occupancyRate"`
}

// EmptyStats returns zeroed stats with non-nil maps.
func EmptyStats() BookingStats {
	return BookingStats{
		PeakHours:      map[string]int{},
		BookingsByType: map[string]int{},
		BookingsByDay:  map[string]int{},
	}
}
