package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when a variable is unset or invalid.
const (
	DefaultAddr              = ":8080"
	DefaultDebounce          = 100 * time.Millisecond
	DefaultBackgroundDelay   = 50 * time.Millisecond
	DefaultFetchCacheTTL     = 30 * time.Second
	DefaultNotificationTopic = "bookings.notifications"
	DefaultNotificationBuf   = 256
	DefaultShutdownTimeout   = 10 * time.Second
)

// Server captures process level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	ShutdownTimeout time.Duration

	Sync          SyncConfig
	FetchCacheTTL time.Duration
	Redis         RedisConfig
	Kafka         KafkaConfig

	// SeedDemo fills the in-memory remote store with a demo company.
	SeedDemo bool
}

// SyncConfig tunes the sync controller.
type SyncConfig struct {
	Debounce        time.Duration
	BackgroundDelay time.Duration
	// RefreshSchedule is a cron spec for forced reloads of the selection.
	// Empty disables them.
	RefreshSchedule string
}

// RedisConfig configures the shared fetch cache. An empty URL keeps the
// cache in process memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures notification publishing. Without brokers,
// notifications are only logged.
type KafkaConfig struct {
	Brokers            string
	NotificationTopic  string
	NotificationBuffer int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:            stringEnv("BOOKINGS_ADDR", DefaultAddr),
		Environment:     stringEnv("ENVIRONMENT", "development"),
		LogLevel:        stringEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: durationEnv("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),
		Sync: SyncConfig{
			Debounce:        durationEnv("SYNC_DEBOUNCE", DefaultDebounce),
			BackgroundDelay: durationEnv("SYNC_BACKGROUND_DELAY", DefaultBackgroundDelay),
			RefreshSchedule: strings.TrimSpace(os.Getenv("SYNC_REFRESH_SCHEDULE")),
		},
		FetchCacheTTL: durationEnv("FETCH_CACHE_TTL", DefaultFetchCacheTTL),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:            os.Getenv("KAFKA_BROKERS"),
			NotificationTopic:  stringEnv("NOTIFICATION_TOPIC", DefaultNotificationTopic),
			NotificationBuffer: intEnv("NOTIFICATION_BUFFER", DefaultNotificationBuf),
		},
		SeedDemo: os.Getenv("SEED_DEMO") == "true",
	}
}

// LoadDotEnv copies variables from the given files (".env" when none are
// named) into the environment. Variables already set win; missing files
// are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
