package notify

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"venuebook/internal/bookings/metrics"
	dErrors "venuebook/pkg/domain-errors"
)

// Publisher hands notifications to a Sink. With an async buffer, Notify
// only enqueues and a background goroutine delivers.
type Publisher struct {
	sink    Sink
	events  chan Notification
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics *metrics.Metrics
	async   bool

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async delivery through a buffer of size entries.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan Notification, size)
			p.async = true
		}
	}
}

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(sink Sink, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		sink:   sink,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.deliverLoop()
	}
	return p
}

func (p *Publisher) deliverLoop() {
	defer p.wg.Done()
	for n := range p.events {
		p.deliver(context.Background(), n)
	}
}

func (p *Publisher) deliver(ctx context.Context, n Notification) error {
	err := p.sink.Deliver(ctx, n)
	if err != nil {
		p.metrics.RecordNotification("failed")
		p.logger.ErrorContext(ctx, "notification delivery failed",
			"notification_id", n.ID,
			"company_id", n.CompanyID,
			"action", n.Action,
			"error", err,
		)
		return err
	}
	p.metrics.RecordNotification("delivered")
	return nil
}

// Notify delivers n, or queues it when async. A full buffer drops n.
func (p *Publisher) Notify(ctx context.Context, n Notification) error {
	n = withDefaults(n)
	if !p.async {
		return p.deliver(ctx, n)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return dErrors.New(dErrors.CodeUnavailable, "notification publisher closed")
	}
	select {
	case p.events <- n:
		p.metrics.RecordNotification("queued")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.RecordNotification("dropped")
		p.logger.WarnContext(ctx, "notification buffer full, dropping",
			"company_id", n.CompanyID,
			"action", n.Action,
		)
		return dErrors.New(dErrors.CodeUnavailable, "notification buffer full")
	}
}

// Close stops accepting notifications and waits for queued ones to drain.
func (p *Publisher) Close() {
	if !p.async {
		return
	}
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.events)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

var _ Notifier = (*Publisher)(nil)
