package service

import (
	"context"
	"log/slog"

	"venuebook/internal/bookings/fetcher"
	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/paths"
	"venuebook/internal/bookings/repository"
	"venuebook/internal/bookings/state"
	bsync "venuebook/internal/bookings/sync"
)

// Entities reads and writes one collection of the selected site and keeps
// the state store in step with successful writes.
type Entities[T state.Entity, PT repository.Entity[T]] struct {
	svc   *Service
	repo  *repository.Collection[T, PT]
	fetch *fetcher.Fetcher[T]
	name  string
}

func newEntities[T state.Entity, PT repository.Entity[T]](svc *Service, repo *repository.Collection[T, PT], cfg config) *Entities[T, PT] {
	name := string(repo.Segment())
	return &Entities[T, PT]{
		svc:  svc,
		repo: repo,
		fetch: fetcher.New(repo.FetchAll, name,
			fetcher.WithCache(cfg.cache),
			fetcher.WithTTL(cfg.cacheTTL),
			fetcher.WithLogger(cfg.logger.With(slog.String("collection", name))),
			fetcher.WithMetrics(cfg.metrics),
		),
		name: name,
	}
}

// Load reads the collection for the current selection, most specific path
// first, and stores it. Without a selected site it returns an empty list.
func (e *Entities[T, PT]) Load(ctx context.Context, bypass bool) ([]T, error) {
	candidates := paths.Resolve(e.svc.ctrl.Tenant())
	if len(candidates) == 0 {
		return []T{}, nil
	}
	items, from, err := bsync.FetchWithFallback[T](ctx, e.fetch, candidates, bypass, e.svc.metrics)
	if err != nil {
		return nil, err
	}
	if from != candidates[0] {
		e.svc.logger.DebugContext(ctx, "collection read from fallback path",
			"collection", e.name,
			"path", from,
		)
	}
	if e.svc.current(candidates[0]) {
		e.svc.store.Dispatch(state.Set[T]{Items: items})
	}
	return items, nil
}

// Create writes item under the primary path. A caller-chosen id is kept;
// otherwise the store assigns one.
func (e *Entities[T, PT]) Create(ctx context.Context, item T) (T, error) {
	created, _, err := e.create(ctx, item)
	return created, err
}

// Update merges patch into the item with id.
func (e *Entities[T, PT]) Update(ctx context.Context, id string, patch models.Patch) error {
	_, err := e.update(ctx, id, patch)
	return err
}

// Delete removes the item with id.
func (e *Entities[T, PT]) Delete(ctx context.Context, id string) error {
	_, err := e.remove(ctx, id)
	return err
}

func (e *Entities[T, PT]) create(ctx context.Context, item T) (T, models.TenantContext, error) {
	tenant, base, err := e.svc.writeBase(ctx, e.name, "create")
	if err != nil {
		var zero T
		return zero, tenant, err
	}
	created, err := e.repo.Create(ctx, base, item)
	if err != nil {
		return created, tenant, err
	}
	e.fetch.Invalidate(ctx, base)
	if e.svc.current(base) {
		e.svc.store.Dispatch(state.Add[T]{Item: created})
	}
	return created, tenant, nil
}

func (e *Entities[T, PT]) update(ctx context.Context, id string, patch models.Patch) (models.TenantContext, error) {
	tenant, base, err := e.svc.writeBase(ctx, e.name, "update")
	if err != nil {
		return tenant, err
	}
	stamp, err := e.repo.Update(ctx, base, id, patch)
	if err != nil {
		return tenant, err
	}
	e.fetch.Invalidate(ctx, base)
	if e.svc.current(base) {
		local := patch.Without("id", "createdAt")
		local["updatedAt"] = stamp
		e.svc.store.Dispatch(state.Update[T]{ID: id, Patch: local})
	}
	return tenant, nil
}

func (e *Entities[T, PT]) remove(ctx context.Context, id string) (models.TenantContext, error) {
	tenant, base, err := e.svc.writeBase(ctx, e.name, "delete")
	if err != nil {
		return tenant, err
	}
	if err := e.repo.Remove(ctx, base, id); err != nil {
		return tenant, err
	}
	e.fetch.Invalidate(ctx, base)
	if e.svc.current(base) {
		e.svc.store.Dispatch(state.Delete[T]{ID: id})
	}
	return tenant, nil
}
