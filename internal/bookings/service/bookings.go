package service

import (
	"context"

	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/notify"
	"venuebook/pkg/requestcontext"
)

// Booking writes go through the same path as every other collection and
// additionally tell the notifier. Notification failures never fail a write.

func (s *Service) LoadBookings(ctx context.Context, bypass bool) ([]models.Booking, error) {
	return s.bookings.Load(ctx, bypass)
}

func (s *Service) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	created, tenant, err := s.bookings.create(ctx, b)
	if err != nil {
		return created, err
	}
	s.notify(ctx, notify.BookingCreated(tenant, requestcontext.ActorID(ctx), created))
	return created, nil
}

func (s *Service) UpdateBooking(ctx context.Context, id string, patch models.Patch) error {
	tenant, err := s.bookings.update(ctx, id, patch)
	if err != nil {
		return err
	}
	s.notify(ctx, notify.BookingUpdated(tenant, requestcontext.ActorID(ctx), id, patch))
	return nil
}

// UpdateBookingStatus sets the status label of a booking.
func (s *Service) UpdateBookingStatus(ctx context.Context, id, status string) error {
	return s.UpdateBooking(ctx, id, models.Patch{"status": status})
}

func (s *Service) DeleteBooking(ctx context.Context, id string) error {
	tenant, err := s.bookings.remove(ctx, id)
	if err != nil {
		return err
	}
	s.notify(ctx, notify.BookingDeleted(tenant, requestcontext.ActorID(ctx), id))
	return nil
}
