package seeder

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/paths"
	"venuebook/internal/bookings/repository"
	"venuebook/internal/remote"
)

func TestSeedAll(t *testing.T) {
	ctx := context.Background()
	store := remote.NewMemoryStore()
	s := New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }

	require.NoError(t, s.SeedAll(ctx))

	repos := repository.NewSet(store)
	base := paths.Primary(DemoTenant)

	bookings, err := repos.Bookings.FetchAll(ctx, base)
	require.NoError(t, err)
	require.Len(t, bookings, 5)
	for _, b := range bookings {
		assert.Equal(t, "2024-03-15", b.Date)
		assert.NotEmpty(t, b.ID)
	}

	tables, err := repos.Tables.FetchAll(ctx, base)
	require.NoError(t, err)
	require.Len(t, tables, 4)
	assert.Equal(t, "t1", tables[0].ID)

	types, err := repos.BookingTypes.FetchAll(ctx, base)
	require.NoError(t, err)
	assert.Len(t, types, 2)

	statuses, err := repos.Statuses.FetchAll(ctx, base)
	require.NoError(t, err)
	assert.Len(t, statuses, 6)

	settings, found, err := repos.Settings.Fetch(ctx, base)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.DefaultSettings().OpeningTime, settings.OpeningTime)
}
