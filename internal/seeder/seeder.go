// Package seeder fills a remote store with a demo company so the server
// has something to show without a real backend.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/paths"
	"venuebook/internal/bookings/repository"
	"venuebook/internal/remote"
)

// DemoTenant is the selection the seeded data lives under.
var DemoTenant = models.TenantContext{CompanyID: "demo", SiteID: "main"}

// Seeder populates a remote store with demo data.
type Seeder struct {
	repos  *repository.Set
	logger *slog.Logger
	now    func() time.Time
}

func New(store remote.Store, logger *slog.Logger) *Seeder {
	return &Seeder{
		repos:  repository.NewSet(store, repository.WithLogger(logger)),
		logger: logger,
		now:    time.Now,
	}
}

// SeedAll writes settings, tables, booking types, statuses, customers and
// a day of bookings under the demo site.
func (s *Seeder) SeedAll(ctx context.Context) error {
	base := paths.Primary(DemoTenant)
	s.logger.InfoContext(ctx, "seeding demo data", "path", base)

	if _, err := s.repos.Settings.Save(ctx, base, models.DefaultSettings()); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	if err := s.seedVenue(ctx, base); err != nil {
		return err
	}
	count, err := s.seedBookings(ctx, base)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "demo data seeded",
		"company_id", DemoTenant.CompanyID,
		"site_id", DemoTenant.SiteID,
		"bookings", count,
	)
	return nil
}

func (s *Seeder) seedVenue(ctx context.Context, base string) error {
	tables := []models.Table{
		{Record: models.Record{ID: "t1"}, Name: "Window 1", Number: "1", Capacity: 2, Order: 1, Active: true},
		{Record: models.Record{ID: "t2"}, Name: "Window 2", Number: "2", Capacity: 2, Order: 2, Active: true},
		{Record: models.Record{ID: "t3"}, Name: "Booth", Number: "3", Capacity: 6, MinCapacity: 3, Order: 3, Active: true},
		{Record: models.Record{ID: "t4"}, Name: "Terrace", Number: "4", Capacity: 8, Order: 4, Active: true},
	}
	for _, t := range tables {
		if _, err := s.repos.Tables.Create(ctx, base, t); err != nil {
			return fmt.Errorf("failed to seed table %s: %w", t.ID, err)
		}
	}

	dinner := models.NewLegacyBookingType("Dinner")
	dinner.ID = "dinner"
	brunch := models.NewLegacyBookingType("Brunch")
	brunch.ID = "brunch"
	brunch.Color = "#FF9800"
	brunch.DefaultDuration = 90
	for _, bt := range []models.BookingType{dinner, brunch} {
		if _, err := s.repos.BookingTypes.Create(ctx, base, bt); err != nil {
			return fmt.Errorf("failed to seed booking type %s: %w", bt.ID, err)
		}
	}

	statuses := []string{models.StatusPending, models.StatusConfirmed, models.StatusSeated,
		models.StatusCompleted, models.StatusCancelled, models.StatusNoShow}
	for i, name := range statuses {
		st := models.BookingStatus{Name: name, Order: i, IsDefault: name == models.StatusPending}
		if _, err := s.repos.Statuses.Create(ctx, base, st); err != nil {
			return fmt.Errorf("failed to seed status %s: %w", name, err)
		}
	}

	customers := []models.Customer{
		{FirstName: "Alice", LastName: "Anderson", Email: "alice@example.com"},
		{FirstName: "Bob", LastName: "Brown", Email: "bob@example.com"},
		{FirstName: "Grace", LastName: "Garcia", Email: "grace@example.com", VisitCount: 4},
	}
	for _, c := range customers {
		if _, err := s.repos.Customers.Create(ctx, base, c); err != nil {
			return fmt.Errorf("failed to seed customer %s: %w", c.Email, err)
		}
	}
	return nil
}

func (s *Seeder) seedBookings(ctx context.Context, base string) (int, error) {
	today := s.now().Format("2006-01-02")
	demo := []struct {
		first, last string
		arrival     string
		guests      int
		status      string
		table       string
		bookingType string
	}{
		{"Alice", "Anderson", "12:30", 2, models.StatusConfirmed, "t1", "brunch"},
		{"Bob", "Brown", "19:00", 4, models.StatusPending, "t3", "dinner"},
		{"Charlie", "Chen", "19:30", 2, models.StatusSeated, "t2", "dinner"},
		{"Diana", "Davis", "20:15", 6, models.StatusConfirmed, "t4", "dinner"},
		{"Eve", "Evans", "18:00", 3, models.StatusNoShow, "t3", ""},
	}
	for _, d := range demo {
		b := models.Booking{
			Date:        today,
			ArrivalTime: d.arrival,
			Guests:      d.guests,
			Status:      d.status,
			TableID:     d.table,
			BookingType: d.bookingType,
			FirstName:   d.first,
			LastName:    d.last,
			Duration:    models.DefaultTypeDuration,
			Source:      "demo",
		}
		if _, err := s.repos.Bookings.Create(ctx, base, b); err != nil {
			return 0, fmt.Errorf("failed to seed booking for %s: %w", d.first, err)
		}
	}
	return len(demo), nil
}
