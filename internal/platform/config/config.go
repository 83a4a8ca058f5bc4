package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. FromEnv keeps main lean; every
// backing service is optional and absence selects the in-memory implementation.
type Config struct {
	Addr string

	// PostgresURL enables the postgres stores when non-empty.
	PostgresURL string

	Redis RedisConfig

	// KafkaBrokers enables the kafka audit sink when non-empty
	// (comma-separated broker list).
	KafkaBrokers string
	KafkaTopic   string

	// ProviderTimeout bounds each verification provider call independently.
	ProviderTimeout time.Duration

	// RecentFeedbackLimit bounds the feedback list on the profile read.
	RecentFeedbackLimit int
}

// RedisConfig mirrors the platform redis client options.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:        getEnv("RECRUITERRISK_ADDR", ":8080"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		KafkaBrokers:        os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:          getEnv("KAFKA_AUDIT_TOPIC", "recruiterrisk.audit"),
		ProviderTimeout:     getEnvDuration("PROVIDER_TIMEOUT", 3*time.Second),
		RecentFeedbackLimit: getEnvInt("RECENT_FEEDBACK_LIMIT", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
