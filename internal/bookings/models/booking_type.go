package models

import (
	"bytes"
	"encoding/json"
)

// Defaults applied to booking types stored in the legacy bare-string shape.
const (
	DefaultTypeColor          = "#4CAF50"
	DefaultTypeDuration       = 120
	DefaultAdvanceBookingDays = 30
	DefaultMinGuests          = 1
	DefaultMaxGuests          = 20
)

// BookingType categorizes bookings (dinner, brunch, private event...).
type BookingType struct {
	Record
	Name               string  `json:"name"`
	Description        string  `json:"description,omitempty"`
	Color              string  `json:"color,omitempty"`
	DefaultDuration    int     `json:"defaultDuration,omitempty"`
	AdvanceBookingDays int     `json:"advanceBookingDays,omitempty"`
	MinGuests          int     `json:"minGuests,omitempty"`
	MaxGuests          int     `json:"maxGuests,omitempty"`
	RequiresDeposit    bool    `json:"requiresDeposit,omitempty"`
	DepositAmount      float64 `json:"depositAmount,omitempty"`
	Active             bool    `json:"active"`
}

// NewLegacyBookingType builds a fully populated type from a bare name.
func NewLegacyBookingType(name string) BookingType {
	return BookingType{
		Name:               name,
		Color:              DefaultTypeColor,
		DefaultDuration:    DefaultTypeDuration,
		AdvanceBookingDays: DefaultAdvanceBookingDays,
		MinGuests:          DefaultMinGuests,
		MaxGuests:          DefaultMaxGuests,
		Active:             true,
	}
}

// UnmarshalJSON accepts both the object shape and the legacy string shape.
func (t *BookingType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*t = NewLegacyBookingType(name)
		return nil
	}
	type plain BookingType
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = BookingType(p)
	return nil
}
