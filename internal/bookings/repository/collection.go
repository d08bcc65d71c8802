// Package repository reads and writes entity collections under a base path
// of the remote store.
package repository

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"time"

	"venuebook/internal/bookings/metrics"
	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/paths"
	"venuebook/internal/remote"
	dErrors "venuebook/pkg/domain-errors"
	platformsync "venuebook/pkg/platform/sync"
)

// Entity is a pointer to a keyed model. The repository assigns ids and
// stamps through Meta.
type Entity[T any] interface {
	*T
	Meta() *models.Record
}

type config struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	locks   *platformsync.KeyedMutex
}

// Option configures a repository.
type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithClock overrides the time source used for audit stamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocks shares one KeyedMutex across repositories of the same store.
func WithLocks(locks *platformsync.KeyedMutex) Option {
	return func(c *config) {
		if locks != nil {
			c.locks = locks
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return time.Now().UTC() },
		locks:  platformsync.NewKeyedMutex(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Collection is the repository of one entity kind.
type Collection[T any, PT Entity[T]] struct {
	store   remote.Store
	segment paths.Segment
	exclude map[string]struct{}
	order   func(a, b T) int
	config
}

func newCollection[T any, PT Entity[T]](store remote.Store, segment paths.Segment, opts []Option) *Collection[T, PT] {
	return &Collection[T, PT]{
		store:   store,
		segment: segment,
		config:  newConfig(opts),
	}
}

// Segment names the collection under a base path.
func (c *Collection[T, PT]) Segment() paths.Segment {
	return c.segment
}

// FetchAll reads every entity of the collection under base. Children that
// fail to decode are logged and skipped.
func (c *Collection[T, PT]) FetchAll(ctx context.Context, base string) ([]T, error) {
	loc := paths.Collection(base, c.segment)
	snap, err := c.store.Get(ctx, loc)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("read %s", c.segment))
	}
	children := childrenOf(snap.Value)
	items := make([]T, 0, len(children))
	for _, key := range slices.SortedFunc(maps.Keys(children), compareKeys) {
		if _, skip := c.exclude[key]; skip {
			continue
		}
		var item T
		if err := remote.DecodeValue(children[key], &item); err != nil {
			c.logger.WarnContext(ctx, "skipping undecodable entry",
				"collection", string(c.segment),
				"path", loc,
				"key", key,
				"error", err,
			)
			continue
		}
		PT(&item).Meta().ID = key
		items = append(items, item)
	}
	if c.order != nil {
		slices.SortStableFunc(items, c.order)
	}
	return items, nil
}

// Get reads one entity. A missing entity is a not-found error.
func (c *Collection[T, PT]) Get(ctx context.Context, base, id string) (T, error) {
	var item T
	snap, err := c.store.Get(ctx, paths.Item(base, c.segment, id))
	if err != nil {
		return item, dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("read %s %s", c.segment, id))
	}
	if !snap.Exists() {
		return item, c.notFound(id)
	}
	if err := snap.Decode(&item); err != nil {
		return item, dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("decode %s %s", c.segment, id))
	}
	PT(&item).Meta().ID = id
	return item, nil
}

// Create stores item under base and returns it with its id and stamps set.
// An empty id is replaced by a server-generated key.
func (c *Collection[T, PT]) Create(ctx context.Context, base string, item T) (T, error) {
	meta := PT(&item).Meta()
	if meta.ID == "" {
		id, err := c.store.Push(ctx, paths.Collection(base, c.segment))
		if err != nil {
			c.metrics.RecordMutation(string(c.segment), "create", err)
			return item, dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("allocate %s id", c.segment))
		}
		meta.ID = id
	}
	meta.Stamp(c.now())

	err := c.store.Set(ctx, paths.Item(base, c.segment, meta.ID), item)
	c.metrics.RecordMutation(string(c.segment), "create", err)
	if err != nil {
		return item, dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("write %s %s", c.segment, meta.ID))
	}
	return item, nil
}

// Update merges patch into the stored entity and refreshes its updatedAt
// stamp. It returns the stamp it wrote.
func (c *Collection[T, PT]) Update(ctx context.Context, base, id string, patch models.Patch) (models.Timestamp, error) {
	loc := paths.Item(base, c.segment, id)
	stamp := models.Timestamp{Time: c.now()}
	err := c.locks.Do(loc, func() error {
		snap, err := c.existing(ctx, loc, id)
		if err != nil {
			return err
		}
		fields := patch.Without("id", "createdAt")
		if err := c.checkPatch(snap, fields); err != nil {
			return err
		}
		fields["updatedAt"] = stamp
		if err := c.store.Update(ctx, loc, fields); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("update %s %s", c.segment, id))
		}
		return nil
	})
	c.metrics.RecordMutation(string(c.segment), "update", err)
	return stamp, err
}

// Remove deletes the entity.
func (c *Collection[T, PT]) Remove(ctx context.Context, base, id string) error {
	loc := paths.Item(base, c.segment, id)
	err := c.locks.Do(loc, func() error {
		if _, err := c.existing(ctx, loc, id); err != nil {
			return err
		}
		if err := c.store.Remove(ctx, loc); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("remove %s %s", c.segment, id))
		}
		return nil
	})
	c.metrics.RecordMutation(string(c.segment), "remove", err)
	return err
}

func (c *Collection[T, PT]) existing(ctx context.Context, loc, id string) (remote.Snapshot, error) {
	snap, err := c.store.Get(ctx, loc)
	if err != nil {
		return snap, dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("read %s %s", c.segment, id))
	}
	if !snap.Exists() {
		return snap, c.notFound(id)
	}
	return snap, nil
}

// checkPatch rejects a patch whose result would no longer decode as T.
// A stored record that does not decode is checked against the zero value.
func (c *Collection[T, PT]) checkPatch(snap remote.Snapshot, patch models.Patch) error {
	var current T
	if err := snap.Decode(&current); err != nil {
		var zero T
		current = zero
	}
	if _, err := models.ApplyPatch(current, patch); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("invalid %s patch", c.segment))
	}
	return nil
}

func (c *Collection[T, PT]) notFound(id string) error {
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("%s %s not found", c.segment, id))
}

// childrenOf accepts both object collections and the array form some
// legacy collections were written in.
func childrenOf(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		out := make(map[string]any, len(t))
		for i, child := range t {
			if child != nil {
				out[strconv.Itoa(i)] = child
			}
		}
		return out
	default:
		return nil
	}
}

func byOrder[T any](order func(T) int) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(order(a), order(b))
	}
}

// compareKeys orders numeric keys numerically and everything else lexically.
func compareKeys(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return cmp.Compare(ai, bi)
	}
	return cmp.Compare(a, b)
}
