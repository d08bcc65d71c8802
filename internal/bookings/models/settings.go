package models

// BookingSettings is the singleton configuration document of a base path.
// It has no id and is always written whole.
type BookingSettings struct {
	OpeningTime      string    `json:"openingTime,omitempty"`
	ClosingTime      string    `json:"closingTime,omitempty"`
	TimeSlotInterval int       `json:"timeSlotInterval,omitempty"`
	DefaultDuration  int       `json:"defaultDuration,omitempty"`
	MaxPartySize     int       `json:"maxPartySize,omitempty"`
	MinAdvanceHours  int       `json:"minAdvanceHours,omitempty"`
	MaxAdvanceDays   int       `json:"maxAdvanceDays,omitempty"`
	AutoConfirm      bool      `json:"autoConfirm,omitempty"`
	AllowOnline      bool      `json:"allowOnlineBookings,omitempty"`
	UpdatedAt        Timestamp `json:"updatedAt"`
}

// DefaultSettings is used when a base path has no settings document.
func DefaultSettings() BookingSettings {
	return BookingSettings{
		OpeningTime:      "09:00",
		ClosingTime:      "23:00",
		TimeSlotInterval: 30,
		DefaultDuration:  DefaultTypeDuration,
		MaxPartySize:     DefaultMaxGuests,
		MaxAdvanceDays:   DefaultAdvanceBookingDays,
	}
}
