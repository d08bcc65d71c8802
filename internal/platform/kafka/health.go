// Package kafka holds broker-level helpers shared by producers.
package kafka

import (
	"context"
	"fmt"
)

// Pinger is satisfied by *producer.Producer.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports broker reachability through an existing client, so
// readiness reflects the connection notifications actually use.
type HealthChecker struct {
	client Pinger
}

func NewHealthChecker(client Pinger) *HealthChecker {
	return &HealthChecker{client: client}
}

func (h *HealthChecker) Check(ctx context.Context) error {
	if err := h.client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka ping: %w", err)
	}
	return nil
}

func (h *HealthChecker) Name() string {
	return "kafka"
}
