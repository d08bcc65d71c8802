// Package state holds the normalized bookings state and the reducer that is
// the only way to change it.
package state

import (
	"venuebook/internal/bookings/models"
)

// BookingsState is the aggregate every consumer reads. Values handed out by
// the Store share slices with it, so treat them as read-only.
type BookingsState struct {
	Tenant           models.TenantContext     `json:"tenant"`
	BasePath         string                   `json:"basePath"`
	Bookings         []models.Booking         `json:"bookings"`
	Tables           []models.Table           `json:"tables"`
	BookingTypes     []models.BookingType     `json:"bookingTypes"`
	Statuses         []models.BookingStatus   `json:"statuses"`
	Customers        []models.Customer        `json:"customers"`
	Waitlist         []models.WaitlistEntry   `json:"waitlist"`
	FloorPlans       []models.FloorPlan       `json:"floorPlans"`
	Tags             []models.BookingTag      `json:"tags"`
	PreorderProfiles []models.PreorderProfile `json:"preorderProfiles"`
	Settings         models.BookingSettings   `json:"settings"`
	Stats            models.BookingStats      `json:"stats"`
	Loading          bool                     `json:"loading"`
	Error            string                   `json:"error,omitempty"`
	Initialized      bool                     `json:"initialized"`
}

// Initial is the empty state a store starts from and returns to on Reset.
func Initial() BookingsState {
	return BookingsState{
		Bookings:         []models.Booking{},
		Tables:           []models.Table{},
		BookingTypes:     []models.BookingType{},
		Statuses:         []models.BookingStatus{},
		Customers:        []models.Customer{},
		Waitlist:         []models.WaitlistEntry{},
		FloorPlans:       []models.FloorPlan{},
		Tags:             []models.BookingTag{},
		PreorderProfiles: []models.PreorderProfile{},
		Settings:         models.DefaultSettings(),
		Stats:            models.EmptyStats(),
	}
}

// Entity lists the kinds of collection the state holds.
type Entity interface {
	models.Booking | models.Table | models.BookingType | models.BookingStatus |
		models.Customer | models.WaitlistEntry | models.FloorPlan | models.BookingTag |
		models.PreorderProfile
	Key() string
}

// slot selects the collection of kind T. Adding an entity kind means adding
// it to Entity, BookingsState and one case here.
func slot[T Entity](s *BookingsState) *[]T {
	var p any
	var zero T
	switch any(zero).(type) {
	case models.Booking:
		p = &s.Bookings
	case models.Table:
		p = &s.Tables
	case models.BookingType:
		p = &s.BookingTypes
	case models.BookingStatus:
		p = &s.Statuses
	case models.Customer:
		p = &s.Customers
	case models.WaitlistEntry:
		p = &s.Waitlist
	case models.FloorPlan:
		p = &s.FloorPlans
	case models.BookingTag:
		p = &s.Tags
	case models.PreorderProfile:
		p = &s.PreorderProfiles
	}
	return p.(*[]T)
}

// Collection returns the collection of kind T from s.
func Collection[T Entity](s BookingsState) []T {
	return *slot[T](&s)
}
