// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	Port              int
	DBPath            string
	LogLevel          string
	CatalogPath       string // empty = built-in default catalogs
	CORSOrigins       []string
	SchedulerInterval time.Duration
	SchedulerEnabled  bool
}

// Load reads configuration from environment variables, with a .env file
// as an optional source. Missing values fall back to development defaults.
func Load() (*Config, error) {
	// Load .env if present; real env vars win either way.
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:      getEnv("DB_PATH", "rewards.db"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CatalogPath: getEnv("CATALOG_PATH", ""),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	interval, err := time.ParseDuration(getEnv("SCHEDULER_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_INTERVAL value: %w", err)
	}
	cfg.SchedulerInterval = interval

	enabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED value: %w", err)
	}
	cfg.SchedulerEnabled = enabled

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
