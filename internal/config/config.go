package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Database URLs
	PostgresURL   string
	ClickHouseURL string
	RedisURL      string

	// Stats provider
	NBAStatsBaseURL    string
	NBAStatsTimeout    time.Duration
	NBAStatsMaxRetries int

	// Cache lifetimes
	GameLogTTL time.Duration
	RosterTTL  time.Duration

	// Archive worker pool
	ArchiveWorkers       int
	ArchiveQueueSize     int
	ArchiveBatchSize     int
	ArchiveFlushInterval time.Duration

	// Refresh job
	RefreshSchedule    string
	RefreshTimezone    *time.Location
	RefreshConcurrency int
	RefreshArchiveLogs bool

	DefaultOpponent string
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		NBAStatsBaseURL:    getEnv("NBA_STATS_BASE_URL", "https://stats.nba.com/stats"),
		NBAStatsTimeout:    getEnvDuration("NBA_STATS_TIMEOUT", 30*time.Second),
		NBAStatsMaxRetries: getEnvInt("NBA_STATS_MAX_RETRIES", 3),

		GameLogTTL: getEnvDuration("GAME_LOG_TTL", 300*time.Second),
		RosterTTL:  getEnvDuration("ROSTER_TTL", 2*time.Hour),

		ArchiveWorkers:       getEnvInt("ARCHIVE_WORKERS", 2),
		ArchiveQueueSize:     getEnvInt("ARCHIVE_QUEUE_SIZE", 1000),
		ArchiveBatchSize:     getEnvInt("ARCHIVE_BATCH_SIZE", 500),
		ArchiveFlushInterval: getEnvDuration("ARCHIVE_FLUSH_INTERVAL", 5*time.Second),

		RefreshSchedule:    getEnv("REFRESH_SCHEDULE", "0 6 * * *"),
		RefreshConcurrency: getEnvInt("REFRESH_CONCURRENCY", 4),
		RefreshArchiveLogs: getEnvBool("REFRESH_ARCHIVE_LOGS", false),

		DefaultOpponent: strings.ToUpper(getEnv("DEFAULT_OPPONENT", "BOS")),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	tz := getEnv("REFRESH_TIMEZONE", "America/New_York")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TIMEZONE %q: %w", tz, err)
	}
	cfg.RefreshTimezone = loc

	// Critical configuration - fail if missing
	if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
		return nil, err
	}
	if cfg.ClickHouseURL, err = getEnvRequired("CLICKHOUSE_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
