package models

// Customer is a guest profile built up across visits.
type Customer struct {
	Record
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName,omitempty"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	VisitCount int      `json:"visitCount,omitempty"`
	LastVisit  string   `json:"lastVisit,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Birthday   string   `json:"birthday,omitempty"`
	Marketing  bool     `json:"marketingOptIn,omitempty"`
}

// Waitlist entry statuses.
const (
	WaitlistWaiting  = "Waiting"
	WaitlistNotified = "Notified"
	WaitlistSeated   = "Seated"
	WaitlistLeft     = "Left"
)

// WaitlistEntry is a walk-in or phone request waiting for a table.
type WaitlistEntry struct {
	Record
	CustomerName      string `json:"customerName"`
	Phone             string `json:"phone,omitempty"`
	Email             string `json:"email,omitempty"`
	PartySize         int    `json:"partySize"`
	Date              string `json:"date,omitempty"`
	RequestedTime     string `json:"requestedTime,omitempty"`
	Status            string `json:"status"`
	Notes             string `json:"notes,omitempty"`
	QuotedWaitMinutes int    `json:"quotedWaitMinutes,omitempty"`
}

// PreorderProfile is a set menu guests choose from before arrival.
type PreorderProfile struct {
	Record
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Items       []PreorderItem `json:"items,omitempty"`
	RequiredFor []string       `json:"requiredFor,omitempty"`
	Active      bool           `json:"active"`
}

// PreorderItem is one dish or drink on a preorder profile.
type PreorderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price,omitempty"`
	Category string  `json:"category,omitempty"`
}
