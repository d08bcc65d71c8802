package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"venuebook/internal/bookings/fetcher"
	"venuebook/internal/bookings/metrics"
	"venuebook/internal/bookings/notify"
	"venuebook/internal/bookings/service"
	bsync "venuebook/internal/bookings/sync"
	"venuebook/internal/bookings/tracer"
	"venuebook/internal/platform/config"
	"venuebook/internal/platform/health"
	"venuebook/internal/platform/jobs"
	"venuebook/internal/platform/kafka"
	"venuebook/internal/platform/kafka/producer"
	"venuebook/internal/platform/logger"
	"venuebook/internal/platform/redis"
	"venuebook/internal/remote"
	"venuebook/internal/seeder"
	httptransport "venuebook/internal/transport/http"
	"venuebook/pkg/platform/circuit"
	request "venuebook/pkg/platform/middleware/request"
)

const (
	poolStatsSchedule  = "@every 15s"
	cacheSweepSchedule = "@every 1m"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Booking logic lives in internal/bookings.
func main() {
	dotEnvErr := config.LoadDotEnv()
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	if dotEnvErr != nil {
		log.Warn("failed to read .env", "error", dotEnvErr)
	}

	log.Info("initializing venuebook",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"redis", cfg.Redis.URL != "",
		"kafka", cfg.Kafka.Brokers != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.New(reg)
	healthHandler := health.New(cfg.Environment)

	runner := jobs.New(jobs.WithLogger(log))

	cache, redisClient := buildCache(ctx, cfg, reg, log)
	if redisClient != nil {
		healthHandler.RegisterChecker(redisClient)
		if err := runner.Add("redis-pool-stats", poolStatsSchedule, func(context.Context) error {
			redisClient.RecordPoolStats()
			return nil
		}); err != nil {
			log.Error("failed to schedule pool stats", "error", err)
		}
	}

	if sweep, ok := cacheSweeper(cache, log); ok {
		if err := runner.Add("fetch-cache-sweep", cacheSweepSchedule, sweep); err != nil {
			log.Error("failed to schedule cache sweep", "error", err)
		}
	}

	sink, kafkaProducer := buildSink(cfg, log)
	if kafkaProducer != nil {
		healthHandler.RegisterChecker(kafka.NewHealthChecker(kafkaProducer))
	}
	publisher := notify.NewPublisher(sink,
		notify.WithAsyncBuffer(cfg.Kafka.NotificationBuffer),
		notify.WithLogger(log),
		notify.WithMetrics(bookingMetrics),
	)

	store := remote.NewMemoryStore()
	if cfg.SeedDemo {
		if err := seeder.New(store, log).SeedAll(ctx); err != nil {
			log.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	svc := service.New(store,
		service.WithLogger(log),
		service.WithMetrics(bookingMetrics),
		service.WithTracer(tracer.NewOTel()),
		service.WithNotifier(publisher),
		service.WithCache(cache),
		service.WithCacheTTL(cfg.FetchCacheTTL),
		service.WithScheduler(bsync.NewClockScheduler(cfg.Sync.BackgroundDelay)),
		service.WithDebounce(cfg.Sync.Debounce),
	)
	if cfg.SeedDemo {
		svc.SelectTenant(seeder.DemoTenant)
	}
	if cfg.Sync.RefreshSchedule != "" {
		if err := runner.Add("bookings-refresh", cfg.Sync.RefreshSchedule, svc.Refresh); err != nil {
			log.Error("invalid refresh schedule", "error", err)
			os.Exit(1)
		}
	}
	runner.Start()

	router := httptransport.NewRouter(httptransport.Deps{
		Service:  svc,
		Health:   healthHandler,
		Gatherer: reg,
		Latency:  request.NewMetrics(reg),
		Logger:   log,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	runner.Stop(shutdownCtx)
	svc.Wait()
	publisher.Close()
	if kafkaProducer != nil {
		kafkaProducer.Close(cfg.ShutdownTimeout)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("failed to close redis client", "error", err)
		}
	}

	log.Info("server stopped")
}

// buildCache uses Redis when configured so fetch results are shared across
// replicas, and process memory otherwise. A Redis that cannot be reached
// degrades to memory instead of failing startup.
func buildCache(ctx context.Context, cfg config.Server, reg prometheus.Registerer, log *slog.Logger) (fetcher.Cache, *redis.Client) {
	client, err := redis.New(ctx, cfg.Redis, redis.NewPoolMetrics(reg))
	if err != nil {
		log.Warn("redis unavailable, using in-memory fetch cache", "error", err)
		return fetcher.NewMemoryCache(), nil
	}
	if client == nil {
		return fetcher.NewMemoryCache(), nil
	}
	return fetcher.NewRedisCache(client.Client), client
}

// cacheSweeper returns a job dropping expired entries of an in-process
// cache. Redis expires its own keys, so it gets none.
func cacheSweeper(cache fetcher.Cache, log *slog.Logger) (jobs.Job, bool) {
	mem, ok := cache.(*fetcher.MemoryCache)
	if !ok {
		return nil, false
	}
	return func(ctx context.Context) error {
		if n := mem.Sweep(); n > 0 {
			log.DebugContext(ctx, "expired fetch cache entries removed", "count", n)
		}
		return nil
	}, true
}

func buildSink(cfg config.Server, log *slog.Logger) (notify.Sink, *producer.Producer) {
	logSink := notify.NewLogSink(log)
	if cfg.Kafka.Brokers == "" {
		return logSink, nil
	}
	p, err := producer.New(producer.DefaultConfig(cfg.Kafka.Brokers), log)
	if err != nil {
		log.Warn("kafka producer unavailable, notifications are only logged", "error", err)
		return logSink, nil
	}
	kafkaSink := notify.NewBreakerSink(
		notify.NewKafkaSink(p, cfg.Kafka.NotificationTopic),
		circuit.New("kafka"),
		log,
	)
	return notify.Fanout{logSink, kafkaSink}, p
}
