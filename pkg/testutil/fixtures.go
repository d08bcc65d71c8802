package testutil

import (
	"venuebook/internal/bookings/models"
)

// Tenants used across package tests.
var (
	TenantSite    = models.TenantContext{CompanyID: "acme", SiteID: "main"}
	TenantSubsite = models.TenantContext{CompanyID: "acme", SiteID: "main", SubsiteID: "terrace"}
	TenantOther   = models.TenantContext{CompanyID: "acme", SiteID: "north"}
)

// BookingBuilder builds bookings with sensible defaults.
type BookingBuilder struct {
	booking models.Booking
}

// NewBookingBuilder starts from a pending table for two at 19:00.
func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		booking: models.Booking{
			Date:        "2024-01-01",
			ArrivalTime: "19:00",
			Guests:      2,
			Status:      models.StatusPending,
			FirstName:   "Ada",
			LastName:    "Lovelace",
			Duration:    models.DefaultTypeDuration,
		},
	}
}

func (b *BookingBuilder) WithID(id string) *BookingBuilder {
	b.booking.ID = id
	return b
}

func (b *BookingBuilder) On(date, arrival string) *BookingBuilder {
	b.booking.Date = date
	b.booking.ArrivalTime = arrival
	return b
}

func (b *BookingBuilder) WithGuests(n int) *BookingBuilder {
	b.booking.Guests = n
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.booking.Status = status
	return b
}

func (b *BookingBuilder) AtTable(tableID string) *BookingBuilder {
	b.booking.TableID = tableID
	return b
}

func (b *BookingBuilder) OfType(bookingType string) *BookingBuilder {
	b.booking.BookingType = bookingType
	return b
}

func (b *BookingBuilder) Build() models.Booking {
	return b.booking
}

// NewTable returns a table seating capacity at position order.
func NewTable(id, name string, capacity, order int) models.Table {
	return models.Table{
		Record:   models.Record{ID: id},
		Name:     name,
		Capacity: capacity,
		Order:    order,
	}
}
