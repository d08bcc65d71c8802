package tracer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"venuebook/internal/bookings/tracer"
)

func TestNoopTracer_Start(t *testing.T) {
	tr := tracer.NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, tracer.SpanSyncCritical,
		tracer.String(tracer.AttrPath, "companies/c/sites/s/data/bookings"),
		tracer.Bool(tracer.AttrStale, false),
	)

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	span.SetAttributes(tracer.Int(tracer.AttrCount, 3))
	span.AddEvent(tracer.EventFallback, tracer.Int64(tracer.AttrGeneration, 2))
	span.End(errors.New("boom"))
}

func TestOTelTracer_WithInjectedTracer(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	_, span := tr.Start(context.Background(), tracer.SpanFetch,
		tracer.String("s", "v"),
		tracer.Int("i", 1),
		tracer.Int64("i64", 2),
		tracer.Duration("d", 1500*time.Millisecond),
		tracer.Bool(tracer.AttrBypass, true),
	)
	require.NotNil(t, span)
	span.AddEvent(tracer.EventDiscard)
	span.End(nil)
}

func TestDurationAttributeInMilliseconds(t *testing.T) {
	assert.Equal(t, int64(1500), tracer.Duration("d", 1500*time.Millisecond).Value)
}
