package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebook/internal/bookings/models"
	dErrors "venuebook/pkg/domain-errors"
)

func TestFetchWithFallback(t *testing.T) {
	ctx := context.Background()
	candidates := []string{"sub", "site"}

	t.Run("first non-empty candidate wins", func(t *testing.T) {
		src := newFakeSource[models.Booking]()
		src.set("sub", bookingsN("sub", 1), nil)
		src.set("site", bookingsN("site", 3), nil)

		items, from, err := FetchWithFallback[models.Booking](ctx, src, candidates, false, nil)
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, "sub", from)
		assert.Equal(t, []string{"sub"}, src.callPaths())
	})

	t.Run("empty subsite falls back to site", func(t *testing.T) {
		src := newFakeSource[models.Booking]()
		src.set("site", bookingsN("site", 3), nil)

		items, from, err := FetchWithFallback[models.Booking](ctx, src, candidates, false, nil)
		require.NoError(t, err)
		assert.Len(t, items, 3)
		assert.Equal(t, "site", from)
	})

	t.Run("failed candidate is skipped", func(t *testing.T) {
		src := newFakeSource[models.Booking]()
		src.set("sub", nil, errors.New("offline"))
		src.set("site", bookingsN("site", 2), nil)

		items, _, err := FetchWithFallback[models.Booking](ctx, src, candidates, false, nil)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("all empty is empty, not an error", func(t *testing.T) {
		src := newFakeSource[models.Booking]()
		src.set("sub", nil, errors.New("offline"))

		items, from, err := FetchWithFallback[models.Booking](ctx, src, candidates, false, nil)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		assert.Equal(t, "sub", from)
	})

	t.Run("all failing is a transient error", func(t *testing.T) {
		src := newFakeSource[models.Booking]()
		src.set("sub", nil, errors.New("offline"))
		src.set("site", nil, errors.New("still offline"))

		_, _, err := FetchWithFallback[models.Booking](ctx, src, candidates, false, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
		assert.Contains(t, err.Error(), "still offline")
	})

	t.Run("no candidates", func(t *testing.T) {
		src := newFakeSource[models.Booking]()
		items, _, err := FetchWithFallback[models.Booking](ctx, src, nil, false, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Empty(t, src.callPaths())
	})
}
