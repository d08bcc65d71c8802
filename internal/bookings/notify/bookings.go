package notify

import (
	"fmt"
	"maps"
	"slices"

	"venuebook/internal/bookings/models"
)

func forBooking(t models.TenantContext, actor, action string) Notification {
	return Notification{
		CompanyID: t.CompanyID.String(),
		SiteID:    t.SiteID.String(),
		SubsiteID: t.SubsiteID.String(),
		ActorID:   actor,
		Category:  CategoryBookings,
		Action:    action,
	}
}

// BookingCreated describes a new booking.
func BookingCreated(t models.TenantContext, actor string, b models.Booking) Notification {
	n := forBooking(t, actor, ActionCreated)
	n.Title = "New booking"
	n.Message = fmt.Sprintf("%s booked for %d on %s at %s", guestLabel(b.GuestName()), b.Guests, b.Date, b.ArrivalTime)
	n.Details = map[string]any{
		"bookingId":   b.ID,
		"date":        b.Date,
		"arrivalTime": b.ArrivalTime,
		"guests":      b.Guests,
		"status":      b.Status,
	}
	return n
}

// BookingUpdated describes a change to booking id. Details list the
// changed fields.
func BookingUpdated(t models.TenantContext, actor, id string, patch models.Patch) Notification {
	n := forBooking(t, actor, ActionUpdated)
	fields := slices.Sorted(maps.Keys(patch.Without("updatedAt")))
	n.Title = "Booking updated"
	n.Message = fmt.Sprintf("Booking %s updated", id)
	n.Details = map[string]any{
		"bookingId": id,
		"fields":    fields,
	}
	if status, ok := patch["status"].(string); ok {
		n.Message = fmt.Sprintf("Booking %s is now %s", id, status)
		n.Details["status"] = status
	}
	return n
}

// BookingDeleted describes a removed booking.
func BookingDeleted(t models.TenantContext, actor, id string) Notification {
	n := forBooking(t, actor, ActionDeleted)
	n.Title = "Booking deleted"
	n.Message = fmt.Sprintf("Booking %s was deleted", id)
	n.Details = map[string]any{"bookingId": id}
	return n
}

func guestLabel(name string) string {
	if name == "" {
		return "A guest"
	}
	return name
}
