package repository

import (
	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/paths"
	"venuebook/internal/remote"
)

type (
	Bookings         = Collection[models.Booking, *models.Booking]
	Tables           = Collection[models.Table, *models.Table]
	BookingTypes     = Collection[models.BookingType, *models.BookingType]
	Statuses         = Collection[models.BookingStatus, *models.BookingStatus]
	Customers        = Collection[models.Customer, *models.Customer]
	Waitlist         = Collection[models.WaitlistEntry, *models.WaitlistEntry]
	FloorPlans       = Collection[models.FloorPlan, *models.FloorPlan]
	Tags             = Collection[models.BookingTag, *models.BookingTag]
	PreorderProfiles = Collection[models.PreorderProfile, *models.PreorderProfile]
)

// tableTypesKey holds table type definitions next to the tables themselves.
const tableTypesKey = "types"

func NewBookings(store remote.Store, opts ...Option) *Bookings {
	return newCollection[models.Booking](store, paths.Bookings, opts)
}

// NewTables ignores the table type definitions stored alongside the tables
// and orders tables by their configured position.
func NewTables(store remote.Store, opts ...Option) *Tables {
	c := newCollection[models.Table](store, paths.Tables, opts)
	c.exclude = map[string]struct{}{tableTypesKey: {}}
	c.order = byOrder(func(t models.Table) int { return t.Order })
	return c
}

func NewBookingTypes(store remote.Store, opts ...Option) *BookingTypes {
	return newCollection[models.BookingType](store, paths.BookingTypes, opts)
}

func NewStatuses(store remote.Store, opts ...Option) *Statuses {
	c := newCollection[models.BookingStatus](store, paths.Statuses, opts)
	c.order = byOrder(func(s models.BookingStatus) int { return s.Order })
	return c
}

func NewCustomers(store remote.Store, opts ...Option) *Customers {
	return newCollection[models.Customer](store, paths.Customers, opts)
}

func NewWaitlist(store remote.Store, opts ...Option) *Waitlist {
	return newCollection[models.WaitlistEntry](store, paths.Waitlist, opts)
}

func NewFloorPlans(store remote.Store, opts ...Option) *FloorPlans {
	return newCollection[models.FloorPlan](store, paths.FloorPlans, opts)
}

func NewTags(store remote.Store, opts ...Option) *Tags {
	return newCollection[models.BookingTag](store, paths.Tags, opts)
}

func NewPreorderProfiles(store remote.Store, opts ...Option) *PreorderProfiles {
	return newCollection[models.PreorderProfile](store, paths.PreorderProfiles, opts)
}

// Set bundles the repositories of one remote store.
type Set struct {
	Bookings         *Bookings
	Tables           *Tables
	BookingTypes     *BookingTypes
	Statuses         *Statuses
	Customers        *Customers
	Waitlist         *Waitlist
	FloorPlans       *FloorPlans
	Tags             *Tags
	PreorderProfiles *PreorderProfiles
	Settings         *Settings
}

// NewSet builds every repository over store with shared options.
func NewSet(store remote.Store, opts ...Option) *Set {
	cfg := newConfig(opts)
	opts = append(opts, WithLocks(cfg.locks))
	return &Set{
		Bookings:         NewBookings(store, opts...),
		Tables:           NewTables(store, opts...),
		BookingTypes:     NewBookingTypes(store, opts...),
		Statuses:         NewStatuses(store, opts...),
		Customers:        NewCustomers(store, opts...),
		Waitlist:         NewWaitlist(store, opts...),
		FloorPlans:       NewFloorPlans(store, opts...),
		Tags:             NewTags(store, opts...),
		PreorderProfiles: NewPreorderProfiles(store, opts...),
		Settings:         NewSettings(store, opts...),
	}
}
