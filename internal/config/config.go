package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/vytor/flashdeck/internal/logger"
)

type Config struct {
	Addr        string
	DBPath      string
	LogLevel    string
	Timezone    string
	CORSOrigins []string

	GenerationAPIKey         string
	GenerationBaseURL        string
	GenerationModel          string
	GenerationTimeoutSeconds int
	GenerationMaxRetries     int
	GenerationRatePerMinute  int
	GenerationWorkerCount    int
	GenerationQueueSize      int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:        envOr("ADDR", ":8080"),
		DBPath:      envOr("DB_PATH", "flashdeck.db"),
		LogLevel:    envOr("LOG_LEVEL", "INFO"),
		Timezone:    envOr("TIMEZONE", "UTC"),
		CORSOrigins: envListOr("CORS_ORIGINS", nil),

		GenerationAPIKey:         os.Getenv("GENERATION_API_KEY"),
		GenerationBaseURL:        os.Getenv("GENERATION_BASE_URL"),
		GenerationModel:          envOr("GENERATION_MODEL", "gpt-4o-mini"),
		GenerationTimeoutSeconds: envIntOr("GENERATION_TIMEOUT_SECONDS", 30),
		GenerationMaxRetries:     envIntOr("GENERATION_MAX_RETRIES", 3),
		GenerationRatePerMinute:  envIntOr("GENERATION_RATE_PER_MINUTE", 30),
		GenerationWorkerCount:    envIntOr("GENERATION_WORKER_COUNT", 2),
		GenerationQueueSize:      envIntOr("GENERATION_QUEUE_SIZE", 16),
	}
}

// Validate checks every setting and reports all problems at once.
func (c Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	}
	if !logger.IsValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("TIMEZONE is invalid: %v", err))
	}
	if c.GenerationTimeoutSeconds < 1 || c.GenerationTimeoutSeconds > 600 {
		errs = append(errs, "GENERATION_TIMEOUT_SECONDS must be between 1 and 600")
	}
	if c.GenerationMaxRetries < 1 || c.GenerationMaxRetries > 10 {
		errs = append(errs, "GENERATION_MAX_RETRIES must be between 1 and 10")
	}
	if c.GenerationRatePerMinute < 0 {
		errs = append(errs, "GENERATION_RATE_PER_MINUTE cannot be negative")
	}
	if c.GenerationWorkerCount < 1 || c.GenerationWorkerCount > 32 {
		errs = append(errs, "GENERATION_WORKER_COUNT must be between 1 and 32")
	}
	if c.GenerationQueueSize < 1 || c.GenerationQueueSize > 1024 {
		errs = append(errs, "GENERATION_QUEUE_SIZE must be between 1 and 1024")
	}
	if c.GenerationEnabled() && strings.TrimSpace(c.GenerationModel) == "" {
		errs = append(errs, "GENERATION_MODEL cannot be empty when generation is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Location resolves Timezone. An empty value means UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GenerationEnabled reports whether a generation endpoint is configured.
// Self-hosted endpoints may not need a key, so a base URL alone is enough.
func (c Config) GenerationEnabled() bool {
	return c.GenerationAPIKey != "" || c.GenerationBaseURL != ""
}

// GenerationTimeout is GenerationTimeoutSeconds as a duration.
func (c Config) GenerationTimeout() time.Duration {
	return time.Duration(c.GenerationTimeoutSeconds) * time.Second
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		logger.Warn("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
