// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// GoogleMapsAPIKey enables the Distance Matrix resolver. When empty the
	// server falls back to the offline straight-line estimator.
	GoogleMapsAPIKey string

	// RoutingTimeout bounds a single resolver call. Defaults to 10s.
	RoutingTimeout time.Duration

	// RedisURL enables the route cache, e.g. redis://localhost:6379/0.
	RedisURL string

	// RouteCacheTTL is how long a resolved leg stays cached. Defaults to 24h.
	RouteCacheTTL time.Duration

	// DayStart anchors the first item of every day. Defaults to 09:00.
	DayStart domain.TimeOfDay

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// AutoMigrate applies pending goose migrations at boot.
	AutoMigrate bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first variable that fails to parse.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		RedisURL:         os.Getenv("REDIS_URL"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.RoutingTimeout, err = time.ParseDuration(getEnv("ROUTING_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("ROUTING_TIMEOUT: %w", err)
	}
	if cfg.RouteCacheTTL, err = time.ParseDuration(getEnv("ROUTE_CACHE_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("ROUTE_CACHE_TTL: %w", err)
	}
	if cfg.DayStart, err = domain.ParseTimeOfDay(getEnv("DAY_START", "09:00")); err != nil {
		return Config{}, fmt.Errorf("DAY_START: %w", err)
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES: must be a positive integer")
	}
	if cfg.AutoMigrate, err = strconv.ParseBool(getEnv("AUTO_MIGRATE", "false")); err != nil {
		return Config{}, fmt.Errorf("AUTO_MIGRATE: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
