package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the bookings module.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	SyncLoads     *prometheus.CounterVec
	StaleResults  *prometheus.CounterVec
	LoadDuration  *prometheus.HistogramVec
	PathFallbacks prometheus.Counter
	FetchCache    *prometheus.CounterVec
	Mutations     *prometheus.CounterVec
	Notifications *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SyncLoads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "venuebook_sync_loads_total",
			Help: "Staged loads run by the sync controller, labeled by stage and outcome",
		}, []string{"stage", "outcome"}),
		StaleResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "venuebook_sync_stale_results_total",
			Help: "Load results discarded because the selection changed while they were in flight",
		}, []string{"stage"}),
		LoadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "venuebook_sync_load_duration_seconds",
			Help:    "Duration of staged loads",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"stage"}),
		PathFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "venuebook_sync_path_fallbacks_total",
			Help: "Reads that fell back from a subsite path to its site path",
		}),
		FetchCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "venuebook_fetch_cache_total",
			Help: "Cached fetcher lookups, labeled by cache key and result (hit, miss, bypass, shared)",
		}, []string{"cache_key", "result"}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "venuebook_mutations_total",
			Help: "Entity writes, labeled by entity, operation and outcome",
		}, []string{"entity", "op", "outcome"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "venuebook_notifications_total",
			Help: "Notifications handed to sinks, labeled by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveLoad(stage, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.SyncLoads.WithLabelValues(stage, outcome).Inc()
	m.LoadDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncStale(stage string) {
	if m == nil {
		return
	}
	m.StaleResults.WithLabelValues(stage).Inc()
}

func (m *Metrics) IncFallback() {
	if m == nil {
		return
	}
	m.PathFallbacks.Inc()
}

func (m *Metrics) RecordFetch(cacheKey, result string) {
	if m == nil {
		return
	}
	m.FetchCache.WithLabelValues(cacheKey, result).Inc()
}

func (m *Metrics) RecordMutation(entity, op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Mutations.WithLabelValues(entity, op, outcome).Inc()
}

func (m *Metrics) RecordNotification(outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(outcome).Inc()
}
