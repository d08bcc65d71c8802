// Package redis builds the Redis client behind the shared fetch cache.
package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"venuebook/internal/platform/config"
)

// PoolMetrics exports connection pool statistics.
type PoolMetrics struct {
	Hits       prometheus.Counter
	Misses     prometheus.Counter
	Timeouts   prometheus.Counter
	StaleConns prometheus.Counter
	TotalConns prometheus.Gauge
	IdleConns  prometheus.Gauge
}

func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	f := promauto.With(reg)
	return &PoolMetrics{
		Hits: f.NewCounter(prometheus.CounterOpts{
			Name: "venuebook_redis_pool_hits_total",
			Help: "Number of times a connection was found in the pool",
		}),
		Misses: f.NewCounter(prometheus.CounterOpts{
			Name: "venuebook_redis_pool_misses_total",
			Help: "Number of times a connection was not found in the pool",
		}),
		Timeouts: f.NewCounter(prometheus.CounterOpts{
			Name: "venuebook_redis_pool_timeouts_total",
			Help: "Number of times a connection was not obtained due to timeout",
		}),
		StaleConns: f.NewCounter(prometheus.CounterOpts{
			Name: "venuebook_redis_pool_stale_conns_total",
			Help: "Number of stale connections removed from the pool",
		}),
		TotalConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "venuebook_redis_pool_total_conns",
			Help: "Number of total connections in the pool",
		}),
		IdleConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "venuebook_redis_pool_idle_conns",
			Help: "Number of idle connections in the pool",
		}),
	}
}

// Client wraps the go-redis client with health checking and pool metrics.
type Client struct {
	*redis.Client
	metrics   *PoolMetrics
	lastStats *redis.PoolStats
}

// New connects to cfg.URL. It returns nil when no URL is configured.
func New(ctx context.Context, cfg config.RedisConfig, m *PoolMetrics) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return Wrap(client, m), nil
}

// Wrap adopts an existing client.
func Wrap(client *redis.Client, m *PoolMetrics) *Client {
	return &Client{Client: client, metrics: m}
}

func (c *Client) Check(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Name() string {
	return "redis"
}

// RecordPoolStats copies the pool statistics into the metrics. Counters
// advance by the change since the previous call.
func (c *Client) RecordPoolStats() {
	if c.metrics == nil {
		return
	}
	stats := c.PoolStats()
	c.metrics.TotalConns.Set(float64(stats.TotalConns))
	c.metrics.IdleConns.Set(float64(stats.IdleConns))

	prev := c.lastStats
	if prev == nil {
		prev = &redis.PoolStats{}
	}
	addDelta(c.metrics.Hits, stats.Hits, prev.Hits)
	addDelta(c.metrics.Misses, stats.Misses, prev.Misses)
	addDelta(c.metrics.Timeouts, stats.Timeouts, prev.Timeouts)
	addDelta(c.metrics.StaleConns, stats.StaleConns, prev.StaleConns)
	c.lastStats = stats
}

type poolCount interface {
	~int32 | ~int64 | ~uint32 | ~uint64
}

func addDelta[N poolCount](counter prometheus.Counter, now, before N) {
	if now > before {
		counter.Add(float64(now - before))
	}
}
