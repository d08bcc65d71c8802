// Package sync keeps the bookings state in step with the remote store as the
// tenant selection changes.
//
// Selection changes are debounced. The surviving change loads critical data
// (bookings and tables) first, then secondary data (booking types and
// statuses) when the process is idle. Results that arrive after a newer
// selection are discarded.
package sync

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"venuebook/internal/bookings/metrics"
	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/paths"
	"venuebook/internal/bookings/state"
	"venuebook/internal/bookings/tracer"
)

const (
	DefaultDebounce    = 100 * time.Millisecond
	DefaultIdleTimeout = 2 * time.Second
)

// Phase is the controller's position in a synchronization cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseLoadingCritical
	PhaseLoadingBackground
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseDebouncing:
		return "debouncing"
	case PhaseLoadingCritical:
		return "loading_critical"
	case PhaseLoadingBackground:
		return "loading_background"
	case PhaseSettled:
		return "settled"
	default:
		return "idle"
	}
}

// Sources are the collections the controller loads.
type Sources struct {
	Bookings     Source[models.Booking]
	Tables       Source[models.Table]
	BookingTypes Source[models.BookingType]
	Statuses     Source[models.BookingStatus]
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *Controller) {
		if t != nil {
			c.tracer = t
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithDebounce sets how long a selection must stay unchanged before it loads.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithIdleTimeout bounds how long background loading may wait for idle time.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.idleTimeout = d
		}
	}
}

// Controller drives loads into a state.Store. Store listeners must not call
// back into the controller: dispatches happen under its lock so a stale
// check and the write it guards are atomic.
type Controller struct {
	store       *state.Store
	sources     Sources
	scheduler   Scheduler
	debounce    time.Duration
	idleTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      tracer.Tracer

	mu         sync.Mutex
	phase      Phase
	tenant     models.TenantContext
	latestPath string
	generation uint64
	inflight   map[uint64]struct{}
	debouncer  Timer
	idle       Timer

	// pending counts scheduled and running stages for Wait.
	pending sync.WaitGroup
}

func New(store *state.Store, sources Sources, opts ...Option) *Controller {
	c := &Controller{
		store:       store,
		sources:     sources,
		scheduler:   NewClockScheduler(DefaultIdleDelay),
		debounce:    DefaultDebounce,
		idleTimeout: DefaultIdleTimeout,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:      tracer.NewNoop(),
		inflight:    make(map[uint64]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Select makes tenant the current selection. A selection that resolves to
// the path already requested is ignored; one that resolves to nothing
// settles immediately with empty collections.
func (c *Controller) Select(tenant models.TenantContext) {
	candidates := paths.Resolve(tenant)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tenant = tenant

	if len(candidates) == 0 {
		c.cancelTimersLocked()
		c.generation++
		c.latestPath = ""
		c.phase = PhaseSettled
		c.logger.Debug("selection has no site, settling empty",
			"company_id", tenant.CompanyID.String(),
			"subsite_id", tenant.SubsiteID.String(),
		)
		c.store.Dispatch(state.Batch{
			state.SetTenant{Tenant: tenant},
			state.Set[models.Booking]{},
			state.Set[models.Table]{},
			clearSecondary(),
			state.SetLoading{Loading: false},
			state.SetError{},
			state.SetInitialized{Initialized: true},
		})
		return
	}

	if candidates[0] == c.latestPath {
		return
	}

	c.cancelTimersLocked()
	c.generation++
	c.latestPath = candidates[0]
	c.phase = PhaseDebouncing

	gen := c.generation
	c.pending.Add(1)
	c.debouncer = c.scheduler.AfterFunc(c.debounce, func() {
		defer c.pending.Done()
		c.fire(gen)
	})
}

// Refresh reloads the current selection now, bypassing the fetch cache, and
// returns the critical stage's error. A pending debounce is folded into it.
// It does nothing when no site is selected or a load for the current
// selection is already in flight.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	candidates := paths.Resolve(c.tenant)
	if len(candidates) == 0 {
		c.mu.Unlock()
		return nil
	}
	if c.debouncer != nil && c.debouncer.Stop() {
		c.pending.Done()
	}
	c.debouncer = nil
	if candidates[0] != c.latestPath {
		c.generation++
		c.latestPath = candidates[0]
	}
	gen := c.generation
	run, ok := c.beginLocked(gen, candidates, true)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	defer c.pending.Done()
	return run(ctx)
}

// Reset forgets the selection and cancels scheduled work. In-flight loads
// finish but their results are discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelTimersLocked()
	c.generation++
	c.tenant = models.TenantContext{}
	c.latestPath = ""
	c.phase = PhaseIdle
}

// Tenant returns the current selection.
func (c *Controller) Tenant() models.TenantContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tenant
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Wait blocks until every scheduled and running stage has finished.
func (c *Controller) Wait() {
	c.pending.Wait()
}

// fire runs when a debounce timer elapses.
func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.debouncer = nil
	candidates := paths.Resolve(c.tenant)
	run, ok := c.beginLocked(gen, candidates, false)
	c.mu.Unlock()
	if !ok {
		return
	}
	defer c.pending.Done()
	_ = run(context.Background())
}

// beginLocked claims the in-flight slot of gen. The returned run must be
// called exactly once, followed by pending.Done.
func (c *Controller) beginLocked(gen uint64, candidates []string, bypass bool) (func(context.Context) error, bool) {
	if _, busy := c.inflight[gen]; busy {
		c.logger.Debug("load already in flight, dropping request", "generation", gen)
		return nil, false
	}
	c.inflight[gen] = struct{}{}
	c.phase = PhaseLoadingCritical
	c.pending.Add(1)
	tenant := c.tenant
	return func(ctx context.Context) error {
		return c.loadCritical(ctx, gen, tenant, candidates, bypass)
	}, true
}

func (c *Controller) loadCritical(ctx context.Context, gen uint64, tenant models.TenantContext, candidates []string, bypass bool) (err error) {
	start := time.Now()
	primary := candidates[0]
	ctx, span := c.tracer.Start(ctx, tracer.SpanSyncCritical,
		tracer.String(tracer.AttrPath, primary),
		tracer.String(tracer.AttrCandidates, strings.Join(candidates, ",")),
		tracer.Int64(tracer.AttrGeneration, int64(gen)),
		tracer.Bool(tracer.AttrBypass, bypass),
	)
	defer func() { span.End(err) }()

	begin := state.Batch{
		state.SetTenant{Tenant: tenant, BasePath: primary},
		state.SetLoading{Loading: true},
	}
	if c.store.State().BasePath != primary {
		begin = append(begin, clearSecondary())
	}
	c.dispatchIfCurrent(gen, begin)

	var (
		bookings []models.Booking
		tables   []models.Table
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, from, err := FetchWithFallback(gctx, c.sources.Bookings, candidates, bypass, c.metrics)
		c.noteFallback(gctx, span, "bookings", primary, from)
		bookings = items
		return err
	})
	g.Go(func() error {
		items, from, err := FetchWithFallback(gctx, c.sources.Tables, candidates, bypass, c.metrics)
		c.noteFallback(gctx, span, "tables", primary, from)
		tables = items
		return err
	})
	err = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, gen)

	if c.staleLocked(gen, primary) {
		c.metrics.IncStale("critical")
		span.AddEvent(tracer.EventDiscard, tracer.Bool(tracer.AttrStale, true))
		c.logger.DebugContext(ctx, "discarding stale critical load", "path", primary, "generation", gen)
		return nil
	}

	if err != nil {
		c.metrics.ObserveLoad("critical", "error", start)
		c.logger.ErrorContext(ctx, "critical load failed",
			"company_id", tenant.CompanyID.String(),
			"path", primary,
			"error", err,
		)
		c.store.Dispatch(state.Batch{
			state.SetLoading{Loading: false},
			state.SetError{Message: err.Error()},
		})
	} else {
		c.metrics.ObserveLoad("critical", "ok", start)
		span.SetAttributes(tracer.Int(tracer.AttrCount, len(bookings)+len(tables)))
		c.logger.InfoContext(ctx, "critical data loaded",
			"company_id", tenant.CompanyID.String(),
			"path", primary,
			"bookings", len(bookings),
			"tables", len(tables),
		)
		c.store.Dispatch(state.Batch{
			state.Set[models.Booking]{Items: bookings},
			state.Set[models.Table]{Items: tables},
			state.SetInitialized{Initialized: true},
			state.SetLoading{Loading: false},
			state.SetError{},
		})
	}

	c.phase = PhaseLoadingBackground
	if c.idle != nil && c.idle.Stop() {
		c.pending.Done()
	}
	c.pending.Add(1)
	c.idle = c.scheduler.ScheduleIdle(func() {
		defer c.pending.Done()
		c.loadBackground(gen, tenant, candidates, bypass)
	}, c.idleTimeout)
	return err
}

// loadBackground fetches secondary collections. Each collection is applied
// on its own success; failures are logged and never touch the error state.
func (c *Controller) loadBackground(gen uint64, tenant models.TenantContext, candidates []string, bypass bool) {
	start := time.Now()
	primary := candidates[0]
	ctx, span := c.tracer.Start(context.Background(), tracer.SpanSyncBackground,
		tracer.String(tracer.AttrPath, primary),
		tracer.Int64(tracer.AttrGeneration, int64(gen)),
	)
	defer span.End(nil)

	var (
		types       []models.BookingType
		statuses    []models.BookingStatus
		typesErr    error
		statusesErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		types, _, typesErr = FetchWithFallback(ctx, c.sources.BookingTypes, candidates, bypass, c.metrics)
		return nil
	})
	g.Go(func() error {
		statuses, _, statusesErr = FetchWithFallback(ctx, c.sources.Statuses, candidates, bypass, c.metrics)
		return nil
	})
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.staleLocked(gen, primary) {
		c.metrics.IncStale("background")
		span.AddEvent(tracer.EventDiscard, tracer.Bool(tracer.AttrStale, true))
		return
	}
	c.idle = nil
	c.phase = PhaseSettled

	var batch state.Batch
	for name, err := range map[string]error{"booking types": typesErr, "statuses": statusesErr} {
		if err != nil {
			c.logger.WarnContext(ctx, "background load failed",
				"company_id", tenant.CompanyID.String(),
				"collection", name,
				"path", primary,
				"error", err,
			)
		}
	}
	if typesErr == nil {
		batch = append(batch, state.Set[models.BookingType]{Items: types})
	}
	if statusesErr == nil {
		batch = append(batch, state.Set[models.BookingStatus]{Items: statuses})
	}
	outcome := "ok"
	if typesErr != nil || statusesErr != nil {
		outcome = "error"
	}
	c.metrics.ObserveLoad("background", outcome, start)
	if len(batch) > 0 {
		c.store.Dispatch(batch)
	}
}

// staleLocked reports whether a load issued for gen at primary has been
// overtaken by a newer selection.
func (c *Controller) staleLocked(gen uint64, primary string) bool {
	return gen != c.generation || primary != c.latestPath
}

// clearSecondary empties what the critical stage does not load, so a new
// selection never shows another site's records while they load.
func clearSecondary() state.Batch {
	return state.Batch{
		state.Set[models.BookingType]{},
		state.Set[models.BookingStatus]{},
		state.Set[models.Customer]{},
		state.Set[models.WaitlistEntry]{},
		state.Set[models.FloorPlan]{},
		state.Set[models.BookingTag]{},
		state.Set[models.PreorderProfile]{},
		state.SetSettings{Settings: models.DefaultSettings()},
		state.SetStats{Stats: models.EmptyStats()},
	}
}

func (c *Controller) dispatchIfCurrent(gen uint64, action state.Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.generation {
		c.store.Dispatch(action)
	}
}

func (c *Controller) noteFallback(ctx context.Context, span tracer.Span, collection, primary, from string) {
	if from == "" || from == primary {
		return
	}
	span.AddEvent(tracer.EventFallback,
		tracer.String(tracer.AttrCollection, collection),
		tracer.String(tracer.AttrPath, from),
	)
	c.logger.DebugContext(ctx, "read fell back to parent path", "collection", collection, "path", from)
}

func (c *Controller) cancelTimersLocked() {
	if c.debouncer != nil && c.debouncer.Stop() {
		c.pending.Done()
	}
	if c.idle != nil && c.idle.Stop() {
		c.pending.Done()
	}
	c.debouncer = nil
	c.idle = nil
}
