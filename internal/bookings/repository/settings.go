package repository

import (
	"context"

	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/paths"
	"venuebook/internal/remote"
	dErrors "venuebook/pkg/domain-errors"
)

// Settings is the repository of the singleton settings document.
type Settings struct {
	store remote.Store
	config
}

func NewSettings(store remote.Store, opts ...Option) *Settings {
	return &Settings{store: store, config: newConfig(opts)}
}

// Fetch returns the settings under base, or the defaults when none exist.
// The boolean reports whether a stored document was found.
func (s *Settings) Fetch(ctx context.Context, base string) (models.BookingSettings, bool, error) {
	snap, err := s.store.Get(ctx, paths.Collection(base, paths.Settings))
	if err != nil {
		return models.BookingSettings{}, false, dErrors.Wrap(err, dErrors.CodeUnavailable, "read settings")
	}
	if !snap.Exists() {
		return models.DefaultSettings(), false, nil
	}
	var settings models.BookingSettings
	if err := snap.Decode(&settings); err != nil {
		s.logger.WarnContext(ctx, "settings undecodable, using defaults", "path", snap.Path, "error", err)
		return models.DefaultSettings(), false, nil
	}
	return settings, true, nil
}

// Save replaces the settings document under base.
func (s *Settings) Save(ctx context.Context, base string, settings models.BookingSettings) (models.BookingSettings, error) {
	settings.UpdatedAt = models.Timestamp{Time: s.now()}
	err := s.store.Set(ctx, paths.Collection(base, paths.Settings), settings)
	s.metrics.RecordMutation(string(paths.Settings), "save", err)
	if err != nil {
		return settings, dErrors.Wrap(err, dErrors.CodeUnavailable, "write settings")
	}
	return settings, nil
}
