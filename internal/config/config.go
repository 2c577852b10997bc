// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/notifyctl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Table names, matching schema.sql
// --------------------------------------------------------------------------

const (
	UsersTable          = "users"
	OrdersTable         = "orders"
	ServiceRecordsTable = "service_records"
	VehiclesTable       = "vehicles"
	NotificationsTable  = "notifications"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Push delivery
	FCMCredentialsFile string

	// Change sources
	ListenChannel string
	NATSURL       string
	NATSSubject   string

	// Event dedupe
	RedisURL       string
	EventDedupeTTL time.Duration

	// Reminders
	Timezone         string
	ReminderInterval time.Duration
	ReminderLeadMin  time.Duration
	ReminderLeadMax  time.Duration
	ReminderWorkers  int

	// Fan-out and retention
	FanOutConcurrency         int
	NotificationRetentionDays int
	CleanupInterval           time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	cfg := &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		FCMCredentialsFile: envOr("FIREBASE_CREDENTIALS_FILE", ""),

		ListenChannel: envOr("LISTEN_CHANNEL", "record_changed"),
		NATSURL:       envOr("NATS_URL", ""),
		NATSSubject:   envOr("NATS_SUBJECT", "bookings.changes"),

		RedisURL:       envOr("REDIS_URL", ""),
		EventDedupeTTL: envDuration("EVENT_DEDUPE_TTL", 24*time.Hour),

		Timezone:         envOr("APP_TIMEZONE", "America/New_York"),
		ReminderInterval: envDuration("REMINDER_INTERVAL", time.Hour),
		ReminderLeadMin:  envDuration("REMINDER_LEAD_MIN", 23*time.Hour),
		ReminderLeadMax:  envDuration("REMINDER_LEAD_MAX", 25*time.Hour),
		ReminderWorkers:  envInt("REMINDER_WORKERS", 8),

		FanOutConcurrency:         envInt("FANOUT_CONCURRENCY", 16),
		NotificationRetentionDays: envInt("NOTIFICATION_RETENTION_DAYS", 90),
		CleanupInterval:           envDuration("CLEANUP_INTERVAL", 6*time.Hour),
	}

	if cfg.ReminderLeadMax < cfg.ReminderLeadMin {
		return nil, fmt.Errorf("REMINDER_LEAD_MAX (%s) is before REMINDER_LEAD_MIN (%s)",
			cfg.ReminderLeadMax, cfg.ReminderLeadMin)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location returns the zone reminder times are rendered in. Load already
// validated the name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts Go duration strings ("90m") or bare seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
