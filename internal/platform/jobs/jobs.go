// Package jobs runs named background jobs on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultJobTimeout = 30 * time.Second

// Job is one scheduled run. A returned error is logged; the schedule keeps
// going.
type Job func(ctx context.Context) error

type Runner struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*Runner)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithJobTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func New(opts ...Option) *Runner {
	r := &Runner{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: DefaultJobTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cron = cron.New(cron.WithChain(
		cron.Recover(cronLogger{r.logger}),
		cron.SkipIfStillRunning(cronLogger{r.logger}),
	))
	return r
}

// Add schedules job under spec, which accepts standard five-field cron
// expressions and descriptors such as "@every 5m".
func (r *Runner) Add(name, spec string, job Job) error {
	if _, err := r.cron.AddFunc(spec, func() { r.run(name, job) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}
	r.logger.Info("job scheduled", "job", name, "schedule", spec)
	return nil
}

func (r *Runner) Start() {
	r.cron.Start()
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (r *Runner) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (r *Runner) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		r.logger.ErrorContext(ctx, "job failed",
			"job", name,
			"error", err,
			"duration", time.Since(start),
		)
		return
	}
	r.logger.DebugContext(ctx, "job finished", "job", name, "duration", time.Since(start))
}

// cronLogger adapts slog to the logger cron's chain wrappers expect.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
