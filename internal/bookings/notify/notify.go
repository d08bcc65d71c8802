// Package notify delivers fire-and-forget notifications about booking
// changes to the people watching a company.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category groups notifications in the consumer's inbox.
const CategoryBookings = "bookings"

// Actions reported for booking changes.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Notification is one change worth telling a company about.
type Notification struct {
	ID        string         `json:"id"`
	CompanyID string         `json:"companyId"`
	SiteID    string         `json:"siteId,omitempty"`
	SubsiteID string         `json:"subsiteId,omitempty"`
	ActorID   string         `json:"actorId,omitempty"`
	Category  string         `json:"category"`
	Action    string         `json:"action"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Notifier accepts notifications. Callers log failures and carry on.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Sink delivers a notification somewhere.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// withDefaults fills the id and timestamp when the caller left them empty.
func withDefaults(n Notification) Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	if n.Category == "" {
		n.Category = CategoryBookings
	}
	return n
}
