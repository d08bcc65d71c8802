// Package requestcontext carries request-scoped values (request id, acting
// user) through context.Context so services can enrich logs and
// notifications without depending on the transport.
package requestcontext

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	actorIDKey
)

// WithRequestID returns a child context carrying the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string) //nolint:errcheck // absent value yields ""
	return v
}

// WithActorID returns a child context carrying the id of the acting user.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// ActorID returns the acting user id stored in ctx, or "".
func ActorID(ctx context.Context) string {
	v, _ := ctx.Value(actorIDKey).(string) //nolint:errcheck // absent value yields ""
	return v
}
