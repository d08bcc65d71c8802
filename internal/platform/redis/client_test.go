package redis

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebook/internal/platform/config"
)

func TestNewWithoutURLIsDisabled(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "mysql://nope"}, nil)
	assert.Error(t, err)
}

func TestRecordPoolStats(t *testing.T) {
	m := NewPoolMetrics(prometheus.NewRegistry())
	raw := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = raw.Close() })

	client := Wrap(raw, m)
	assert.Equal(t, "redis", client.Name())
	assert.NotPanics(t, client.RecordPoolStats)
	assert.NotPanics(t, client.RecordPoolStats)
	assert.InDelta(t, 0, testutil.ToFloat64(m.TotalConns), 0)

	assert.NotPanics(t, Wrap(raw, nil).RecordPoolStats)
}
