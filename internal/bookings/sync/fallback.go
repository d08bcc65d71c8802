package sync

import (
	"context"
	"fmt"

	"venuebook/internal/bookings/metrics"
	dErrors "venuebook/pkg/domain-errors"
)

// Source reads one collection at a base path.
type Source[T any] interface {
	Fetch(ctx context.Context, path string, bypass bool) ([]T, error)
}

// FetchWithFallback reads candidates in order and returns the first
// non-empty collection with the path it came from. Failed candidates are
// skipped. When at least one candidate answered but all were empty the
// result is empty; only when every candidate failed is the last error
// returned.
func FetchWithFallback[T any](ctx context.Context, src Source[T], candidates []string, bypass bool, m *metrics.Metrics) ([]T, string, error) {
	if len(candidates) == 0 {
		return []T{}, "", nil
	}
	var lastErr error
	answered := false
	for i, path := range candidates {
		items, err := src.Fetch(ctx, path, bypass)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		answered = true
		if len(items) > 0 {
			if i > 0 {
				m.IncFallback()
			}
			return items, path, nil
		}
	}
	if answered {
		return []T{}, candidates[0], nil
	}
	return nil, "", dErrors.Wrap(lastErr, dErrors.CodeUnavailable,
		fmt.Sprintf("read %d candidate paths: %v", len(candidates), lastErr))
}
