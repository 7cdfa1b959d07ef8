// Package config loads the service configuration from the environment into a
// single typed struct at startup. Nothing else in the service reads env vars
// for its settings; handlers and services receive values from here.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the complete service configuration.
type Config struct {
	// DatabaseDSN is the Postgres connection string. Required.
	DatabaseDSN string
	// RedisURL is the Redis connection URL for cache, streams and relay.
	RedisURL string

	RESTPort string
	WSPort   string

	// Interpreter settings for the chat-completion endpoint.
	InterpreterBaseURL string
	InterpreterAPIKey  string
	InterpreterModel   string
	InterpreterTimeout time.Duration
	// InterpreterRPS caps outbound model calls per second. Zero disables.
	InterpreterRPS float64

	// Webhook retry policy.
	WebhookMaxAttempts  int
	WebhookInitialDelay time.Duration
	WebhookBackoffMult  float64

	// Background jobs.
	EnableJobs                bool
	DraftPublishInterval      time.Duration
	ReservationExpiryInterval time.Duration
	ReservationHoldTime       time.Duration

	// VenueTimezone is the IANA zone game times are interpreted in.
	VenueTimezone string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		RESTPort:    getEnv("REST_PORT", "8080"),
		WSPort:      getEnv("WS_PORT", "8081"),

		InterpreterBaseURL: getEnv("INTERPRETER_BASE_URL", "https://api.openai.com"),
		InterpreterAPIKey:  os.Getenv("INTERPRETER_API_KEY"),
		InterpreterModel:   getEnv("INTERPRETER_MODEL", "gpt-4o-mini"),
		InterpreterTimeout: getDuration("INTERPRETER_TIMEOUT", 60*time.Second),
		InterpreterRPS:     getFloat("INTERPRETER_RPS", 1),

		WebhookMaxAttempts:  getInt("WEBHOOK_MAX_ATTEMPTS", 3),
		WebhookInitialDelay: getDuration("WEBHOOK_INITIAL_DELAY", 500*time.Millisecond),
		WebhookBackoffMult:  getFloat("WEBHOOK_BACKOFF_MULT", 2.0),

		EnableJobs:                getEnv("ENABLE_JOBS", "true") == "true",
		DraftPublishInterval:      getDuration("DRAFT_PUBLISH_INTERVAL", 5*time.Minute),
		ReservationExpiryInterval: getDuration("RESERVATION_EXPIRY_INTERVAL", 10*time.Minute),
		ReservationHoldTime:       getDuration("RESERVATION_HOLD_TIME", 24*time.Hour),

		VenueTimezone: getEnv("VENUE_TIMEZONE", "America/Los_Angeles"),
	}

	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}
	if cfg.WebhookMaxAttempts < 1 {
		return nil, fmt.Errorf("WEBHOOK_MAX_ATTEMPTS must be at least 1")
	}
	if _, err := time.LoadLocation(cfg.VenueTimezone); err != nil {
		return nil, fmt.Errorf("invalid VENUE_TIMEZONE %q: %w", cfg.VenueTimezone, err)
	}

	return cfg, nil
}

// VenueLocation resolves the configured timezone. Load already validated it,
// so failures here fall back to the system zone.
func (c *Config) VenueLocation() *time.Location {
	loc, err := time.LoadLocation(c.VenueTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
