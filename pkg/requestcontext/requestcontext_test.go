package requestcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ActorID(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithActorID(ctx, "user-7")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "user-7", ActorID(ctx))
}
