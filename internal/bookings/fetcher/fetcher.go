// Package fetcher memoizes collection reads and coalesces concurrent
// identical requests into one load.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"venuebook/internal/bookings/metrics"
	dErrors "venuebook/pkg/domain-errors"
)

// DefaultTTL bounds how long a cached collection is served without a reload.
const DefaultTTL = 30 * time.Second

// Loader reads a collection at path from the source of truth.
type Loader[T any] func(ctx context.Context, path string) ([]T, error)

type config struct {
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Fetcher.
type Option func(*config)

// WithCache replaces the default in-memory cache. A nil cache disables
// memoization and keeps request coalescing only.
func WithCache(c Cache) Option {
	return func(cfg *config) {
		cfg.cache = c
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(cfg *config) {
		cfg.ttl = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *config) {
		cfg.metrics = m
	}
}

// Fetcher wraps a Loader. Concurrent Fetch calls for the same path share a
// single load; failures are never cached.
type Fetcher[T any] struct {
	load     Loader[T]
	cacheKey string
	group    singleflight.Group
	config

	// versions is bumped by Invalidate so loads that started before a write
	// do not repopulate the cache with pre-write data.
	mu       sync.Mutex
	versions map[string]uint64
}

// New returns a Fetcher whose entries are namespaced by cacheKey.
func New[T any](load Loader[T], cacheKey string, opts ...Option) *Fetcher[T] {
	cfg := config{
		cache:  NewMemoryCache(),
		ttl:    DefaultTTL,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Fetcher[T]{
		load:     load,
		cacheKey: cacheKey,
		config:   cfg,
		versions: make(map[string]uint64),
	}
}

// Fetch returns the collection at path. With bypass set the cache is
// skipped and the entry refreshed from a fresh load. The load itself is not
// bound to ctx: a caller giving up does not cancel the load other callers
// are waiting on.
func (f *Fetcher[T]) Fetch(ctx context.Context, path string, bypass bool) ([]T, error) {
	key := f.key(path)
	flightKey := key
	if bypass {
		flightKey += "#fresh"
		f.metrics.RecordFetch(f.cacheKey, "bypass")
	} else {
		if items, ok := f.cached(ctx, key); ok {
			f.metrics.RecordFetch(f.cacheKey, "hit")
			return items, nil
		}
		f.metrics.RecordFetch(f.cacheKey, "miss")
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := f.group.DoChan(flightKey, func() (any, error) {
		version := f.version(key)
		items, err := f.load(loadCtx, path)
		if err != nil {
			return nil, err
		}
		f.remember(loadCtx, key, version, items)
		return items, nil
	})

	select {
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "fetch abandoned")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			f.metrics.RecordFetch(f.cacheKey, "shared")
		}
		items, _ := res.Val.([]T)
		return slices.Clone(items), nil
	}
}

// Invalidate drops the cached entry for path and detaches any in-flight load
// so the next Fetch observes writes made after this call.
func (f *Fetcher[T]) Invalidate(ctx context.Context, path string) {
	key := f.key(path)
	f.mu.Lock()
	f.versions[key]++
	f.mu.Unlock()
	f.group.Forget(key)
	f.group.Forget(key + "#fresh")
	if f.cache == nil {
		return
	}
	if err := f.cache.Delete(ctx, key); err != nil {
		f.logger.WarnContext(ctx, "fetch cache invalidation failed",
			"cache_key", f.cacheKey,
			"path", path,
			"error", err,
		)
	}
}

func (f *Fetcher[T]) key(path string) string {
	return f.cacheKey + ":" + path
}

// cached returns a decoded cache entry. Cache errors degrade to a miss.
func (f *Fetcher[T]) cached(ctx context.Context, key string) ([]T, bool) {
	if f.cache == nil {
		return nil, false
	}
	data, err := f.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			f.logger.WarnContext(ctx, "fetch cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		f.logger.WarnContext(ctx, "fetch cache entry undecodable", "key", key, "error", err)
		return nil, false
	}
	return items, true
}

func (f *Fetcher[T]) version(key string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.versions[key]
}

func (f *Fetcher[T]) remember(ctx context.Context, key string, version uint64, items []T) {
	if f.cache == nil || f.version(key) != version {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		f.logger.WarnContext(ctx, "fetch cache encode failed", "key", key, "error", err)
		return
	}
	if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
		f.logger.WarnContext(ctx, "fetch cache write failed", "key", key, "error", err)
	}
}
