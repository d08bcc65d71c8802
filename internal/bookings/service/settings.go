package service

import (
	"context"

	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/paths"
	"venuebook/internal/bookings/state"
)

// LoadSettings reads the settings of the selection, most specific path
// first, and stores them. Defaults apply when no path holds a document.
// A failing path is skipped; the error is returned only when every path
// failed.
func (s *Service) LoadSettings(ctx context.Context) (models.BookingSettings, error) {
	candidates := paths.Resolve(s.ctrl.Tenant())
	if len(candidates) == 0 {
		return models.DefaultSettings(), nil
	}

	settings := models.DefaultSettings()
	var lastErr error
	answered := false
	for _, base := range candidates {
		got, found, err := s.settings.Fetch(ctx, base)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		answered = true
		if found {
			settings = got
			break
		}
	}
	if !answered && lastErr != nil {
		return models.BookingSettings{}, lastErr
	}
	if s.current(candidates[0]) {
		s.store.Dispatch(state.SetSettings{Settings: settings})
	}
	return settings, nil
}

// SaveSettings replaces the settings document of the primary path.
func (s *Service) SaveSettings(ctx context.Context, settings models.BookingSettings) (models.BookingSettings, error) {
	_, base, err := s.writeBase(ctx, string(paths.Settings), "save")
	if err != nil {
		return settings, err
	}
	saved, err := s.settings.Save(ctx, base, settings)
	if err != nil {
		return saved, err
	}
	if s.current(base) {
		s.store.Dispatch(state.SetSettings{Settings: saved})
	}
	return saved, nil
}
