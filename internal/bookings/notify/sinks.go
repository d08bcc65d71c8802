package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"venuebook/internal/platform/kafka/producer"
	"venuebook/pkg/platform/circuit"
)

// LogSink writes notifications to a structured log. It is the sink used
// when no broker is configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "notification",
		"notification_id", n.ID,
		"company_id", n.CompanyID,
		"actor_id", n.ActorID,
		"category", n.Category,
		"action", n.Action,
		"title", n.Title,
		"message", n.Message,
	)
	return nil
}

// Producer publishes one Kafka message.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaSink publishes notifications as JSON, keyed by company so a
// company's notifications stay ordered within a partition.
type KafkaSink struct {
	producer Producer
	topic    string
}

func NewKafkaSink(p Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Deliver(ctx context.Context, n Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   []byte(n.CompanyID),
		Value: value,
		Headers: map[string]string{
			"category": n.Category,
			"action":   n.Action,
		},
	})
}

// Fanout delivers to every sink and joins their errors.
type Fanout []Sink

func (f Fanout) Deliver(ctx context.Context, n Notification) error {
	var errs []error
	for _, s := range f {
		if err := s.Deliver(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BreakerSink guards a remote sink with a circuit breaker. While the
// circuit is open, delivery is still attempted but failures are not
// reported, so an outage is logged once instead of per notification.
type BreakerSink struct {
	sink    Sink
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewBreakerSink(sink Sink, breaker *circuit.Breaker, logger *slog.Logger) *BreakerSink {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BreakerSink{sink: sink, breaker: breaker, logger: logger}
}

func (s *BreakerSink) Deliver(ctx context.Context, n Notification) error {
	err := s.sink.Deliver(ctx, n)
	if err == nil {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "notification sink recovered", "sink", s.breaker.Name())
		}
		return nil
	}

	open, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "notification sink circuit opened",
			"sink", s.breaker.Name(),
			"error", err,
		)
	}
	if open {
		return nil
	}
	return err
}

var (
	_ Sink = (*BreakerSink)(nil)
	_ Sink = (*LogSink)(nil)
	_ Sink = (*KafkaSink)(nil)
	_ Sink = Fanout(nil)
)
