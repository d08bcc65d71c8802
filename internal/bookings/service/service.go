// Package service is the facade UI consumers use: it owns the state store,
// drives the sync controller and routes writes through the repositories.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Notifier

import (
	"context"
	"io"
	"log/slog"
	"time"

	"venuebook/internal/bookings/fetcher"
	"venuebook/internal/bookings/metrics"
	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/notify"
	"venuebook/internal/bookings/paths"
	"venuebook/internal/bookings/repository"
	"venuebook/internal/bookings/state"
	"venuebook/internal/bookings/stats"
	bsync "venuebook/internal/bookings/sync"
	"venuebook/internal/bookings/tracer"
	"venuebook/internal/remote"
	dErrors "venuebook/pkg/domain-errors"
)

// Notifier receives booking change notifications.
type Notifier interface {
	Notify(ctx context.Context, n notify.Notification) error
}

// noSiteWarning keys the one-time warning for writes without a selected site.
const noSiteWarning = "no-site"

type config struct {
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
	notifier    Notifier
	cache       fetcher.Cache
	cacheTTL    time.Duration
	scheduler   bsync.Scheduler
	debounce    time.Duration
	idleTimeout time.Duration
	now         func() time.Time
}

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

func WithTracer(t tracer.Tracer) Option {
	return func(c *config) {
		c.tracer = t
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// WithCache sets the fetch cache shared by every collection.
func WithCache(cache fetcher.Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

func WithScheduler(s bsync.Scheduler) Option {
	return func(c *config) {
		c.scheduler = s
	}
}

func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		c.debounce = d
	}
}

func WithIdleTimeout(d time.Duration) Option {
	return func(c *config) {
		c.idleTimeout = d
	}
}

// WithClock overrides the clock used to stamp writes.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// Service binds one state store to one remote store.
type Service struct {
	store    *state.Store
	ctrl     *bsync.Controller
	settings *repository.Settings
	logger   *slog.Logger
	metrics  *metrics.Metrics
	notifier Notifier

	bookings         *Entities[models.Booking, *models.Booking]
	tables           *Entities[models.Table, *models.Table]
	bookingTypes     *Entities[models.BookingType, *models.BookingType]
	statuses         *Entities[models.BookingStatus, *models.BookingStatus]
	customers        *Entities[models.Customer, *models.Customer]
	waitlist         *Entities[models.WaitlistEntry, *models.WaitlistEntry]
	floorPlans       *Entities[models.FloorPlan, *models.FloorPlan]
	tags             *Entities[models.BookingTag, *models.BookingTag]
	preorderProfiles *Entities[models.PreorderProfile, *models.PreorderProfile]
}

func New(rs remote.Store, opts ...Option) *Service {
	cfg := config{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:       fetcher.NewMemoryCache(),
		cacheTTL:    fetcher.DefaultTTL,
		debounce:    bsync.DefaultDebounce,
		idleTimeout: bsync.DefaultIdleTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	repos := repository.NewSet(rs,
		repository.WithLogger(cfg.logger),
		repository.WithMetrics(cfg.metrics),
		repository.WithClock(cfg.now),
	)
	s := &Service{
		store:    state.NewStore(),
		settings: repos.Settings,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		notifier: cfg.notifier,
	}
	s.bookings = newEntities(s, repos.Bookings, cfg)
	s.tables = newEntities(s, repos.Tables, cfg)
	s.bookingTypes = newEntities(s, repos.BookingTypes, cfg)
	s.statuses = newEntities(s, repos.Statuses, cfg)
	s.customers = newEntities(s, repos.Customers, cfg)
	s.waitlist = newEntities(s, repos.Waitlist, cfg)
	s.floorPlans = newEntities(s, repos.FloorPlans, cfg)
	s.tags = newEntities(s, repos.Tags, cfg)
	s.preorderProfiles = newEntities(s, repos.PreorderProfiles, cfg)

	s.ctrl = bsync.New(s.store, bsync.Sources{
		Bookings:     s.bookings.fetch,
		Tables:       s.tables.fetch,
		BookingTypes: s.bookingTypes.fetch,
		Statuses:     s.statuses.fetch,
	},
		bsync.WithLogger(cfg.logger),
		bsync.WithMetrics(cfg.metrics),
		bsync.WithTracer(cfg.tracer),
		bsync.WithScheduler(cfg.scheduler),
		bsync.WithDebounce(cfg.debounce),
		bsync.WithIdleTimeout(cfg.idleTimeout),
	)
	return s
}

// State returns the current state. Treat it as read-only.
func (s *Service) State() state.BookingsState {
	return s.store.State()
}

// Subscribe registers l for every state change. Listeners run serially and
// must not call back into the service.
func (s *Service) Subscribe(l state.Listener) (unsubscribe func()) {
	return s.store.Subscribe(l)
}

// SelectTenant changes the selection. Loading starts once the selection has
// been stable for the debounce interval.
func (s *Service) SelectTenant(t models.TenantContext) {
	s.ctrl.Select(t)
}

// Tenant returns the current selection.
func (s *Service) Tenant() models.TenantContext {
	return s.ctrl.Tenant()
}

// Refresh reloads bookings, tables, types and statuses bypassing the cache.
func (s *Service) Refresh(ctx context.Context) error {
	return s.ctrl.Refresh(ctx)
}

// Reset forgets the selection and returns the state to its initial value.
func (s *Service) Reset() {
	s.ctrl.Reset()
	s.store.Dispatch(state.Reset{})
}

// Wait blocks until scheduled loads have finished.
func (s *Service) Wait() {
	s.ctrl.Wait()
}

// Stats derives statistics from the loaded bookings without storing them.
func (s *Service) Stats(r *stats.Range) models.BookingStats {
	st := s.store.State()
	return stats.ComputeWithTypes(st.Bookings, st.BookingTypes, r)
}

// RecalculateStats derives statistics and stores them in the state.
func (s *Service) RecalculateStats(r *stats.Range) models.BookingStats {
	computed := s.Stats(r)
	s.store.Dispatch(state.SetStats{Stats: computed})
	return computed
}

// BookingsOn returns the loaded bookings of date ordered by arrival time.
func (s *Service) BookingsOn(date string) []models.Booking {
	return stats.BookingsOn(s.store.State().Bookings, date)
}

func (s *Service) Tables() *Entities[models.Table, *models.Table] { return s.tables }

func (s *Service) BookingTypes() *Entities[models.BookingType, *models.BookingType] {
	return s.bookingTypes
}

func (s *Service) Statuses() *Entities[models.BookingStatus, *models.BookingStatus] {
	return s.statuses
}

func (s *Service) Customers() *Entities[models.Customer, *models.Customer] { return s.customers }

func (s *Service) Waitlist() *Entities[models.WaitlistEntry, *models.WaitlistEntry] {
	return s.waitlist
}

func (s *Service) FloorPlans() *Entities[models.FloorPlan, *models.FloorPlan] { return s.floorPlans }

func (s *Service) Tags() *Entities[models.BookingTag, *models.BookingTag] { return s.tags }

func (s *Service) PreorderProfiles() *Entities[models.PreorderProfile, *models.PreorderProfile] {
	return s.preorderProfiles
}

// writeBase returns the primary path of the current selection. Writes
// without a selected site fail and are logged once until the next reset.
func (s *Service) writeBase(ctx context.Context, entity, op string) (models.TenantContext, string, error) {
	tenant := s.ctrl.Tenant()
	base := paths.Primary(tenant)
	if base != "" {
		return tenant, base, nil
	}
	if s.store.WarnOnce(noSiteWarning) {
		s.logger.WarnContext(ctx, "write attempted without a selected site",
			"entity", entity,
			"op", op,
			"company_id", tenant.CompanyID,
		)
	}
	return tenant, "", dErrors.New(dErrors.CodeBadRequest, "no site selected")
}

// current reports whether base is still the primary path of the selection,
// so a write that raced a selection change does not touch the new state.
func (s *Service) current(base string) bool {
	return paths.Primary(s.ctrl.Tenant()) == base
}

func (s *Service) notify(ctx context.Context, n notify.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "notification not sent",
			"action", n.Action,
			"company_id", n.CompanyID,
			"error", err,
		)
	}
}
