// Package tracer provides a small tracing abstraction for the bookings module.
//
// The sync controller and repositories depend on the Tracer interface only,
// so tests run with NoopTracer and production wires OTelTracer.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording err when non-nil.
	// End must be called exactly once, typically via defer.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanSyncCritical   = "bookings.sync.critical"
	SpanSyncBackground = "bookings.sync.background"
	SpanSyncOnDemand   = "bookings.sync.on_demand"
	SpanFetch          = "bookings.fetch"
)

// Attribute keys.
const (
	AttrPath       = "bookings.path"
	AttrCandidates = "bookings.candidates"
	AttrGeneration = "bookings.generation"
	AttrCollection = "bookings.collection"
	AttrCount      = "bookings.count"
	AttrStale      = "bookings.stale"
	AttrBypass     = "cache.bypass"
)

// Event names.
const (
	EventFallback = "path.fallback"
	EventDiscard  = "result.discarded"
)
