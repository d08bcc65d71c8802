package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"BOOKINGS_ADDR", "SYNC_DEBOUNCE", "FETCH_CACHE_TTL", "REDIS_URL", "KAFKA_BROKERS", "SEED_DEMO"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultDebounce, cfg.Sync.Debounce)
	assert.Equal(t, DefaultBackgroundDelay, cfg.Sync.BackgroundDelay)
	assert.Equal(t, DefaultFetchCacheTTL, cfg.FetchCacheTTL)
	assert.Equal(t, DefaultNotificationTopic, cfg.Kafka.NotificationTopic)
	assert.Equal(t, DefaultNotificationBuf, cfg.Kafka.NotificationBuffer)
	assert.Empty(t, cfg.Redis.URL)
	assert.False(t, cfg.SeedDemo)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BOOKINGS_ADDR", ":9090")
	t.Setenv("SYNC_DEBOUNCE", "250ms")
	t.Setenv("FETCH_CACHE_TTL", "1m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("REDIS_POOL_SIZE", "20")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("NOTIFICATION_BUFFER", "16")
	t.Setenv("SEED_DEMO", "true")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.Debounce)
	assert.Equal(t, time.Minute, cfg.FetchCacheTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, "k1:9092,k2:9092", cfg.Kafka.Brokers)
	assert.Equal(t, 16, cfg.Kafka.NotificationBuffer)
	assert.True(t, cfg.SeedDemo)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SYNC_DEBOUNCE", "soon")
	t.Setenv("FETCH_CACHE_TTL", "-5s")
	t.Setenv("NOTIFICATION_BUFFER", "many")

	cfg := FromEnv()
	assert.Equal(t, DefaultDebounce, cfg.Sync.Debounce)
	assert.Equal(t, DefaultFetchCacheTTL, cfg.FetchCacheTTL)
	assert.Equal(t, DefaultNotificationBuf, cfg.Kafka.NotificationBuffer)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("VENUEBOOK_DOTENV_NEW=from-file\nVENUEBOOK_DOTENV_SET=from-file\n"), 0o600))

	t.Setenv("VENUEBOOK_DOTENV_SET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("VENUEBOOK_DOTENV_NEW") })

	require.NoError(t, LoadDotEnv(file, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("VENUEBOOK_DOTENV_NEW"))
	assert.Equal(t, "from-env", os.Getenv("VENUEBOOK_DOTENV_SET"), "existing variables win")
}

func TestRefreshScheduleIsOptional(t *testing.T) {
	t.Setenv("SYNC_REFRESH_SCHEDULE", "")
	assert.Empty(t, FromEnv().Sync.RefreshSchedule)

	t.Setenv("SYNC_REFRESH_SCHEDULE", " @every 5m ")
	assert.Equal(t, "@every 5m", FromEnv().Sync.RefreshSchedule)
}
