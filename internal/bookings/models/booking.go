package models

// Known booking status labels. Stats match them exactly.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusSeated    = "Seated"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
	StatusNoShow    = "No-Show"

	// StatusNoShowLegacy is the spelling older records use.
	StatusNoShowLegacy = "No Show"
)

// Booking is a single reservation. Date is YYYY-MM-DD and ArrivalTime HH:MM,
// both in the venue's local time. Stats also read RFC 3339 timestamps in
// Date by their calendar day.
type Booking struct {
	Record
	Date            string   `json:"date"`
	ArrivalTime     string   `json:"arrivalTime"`
	Guests          int      `json:"guests"`
	Status          string   `json:"status"`
	TableID         string   `json:"tableId,omitempty"`
	TableNumber     string   `json:"tableNumber,omitempty"`
	BookingType     string   `json:"bookingType,omitempty"`
	CustomerID      string   `json:"customerId,omitempty"`
	FirstName       string   `json:"firstName,omitempty"`
	LastName        string   `json:"lastName,omitempty"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Duration        int      `json:"duration,omitempty"`
	EndTime         string   `json:"endTime,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	SpecialRequests string   `json:"specialRequests,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Source          string   `json:"source,omitempty"`
	PreorderProfile string   `json:"preorderProfileId,omitempty"`
}

// GuestName joins the first and last name.
func (b Booking) GuestName() string {
	switch {
	case b.FirstName == "":
		return b.LastName
	case b.LastName == "":
		return b.FirstName
	default:
		return b.FirstName + " " + b.LastName
	}
}
