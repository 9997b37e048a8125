package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	CachePath       string
	LogLevel        string
	PageSize        int
	DefaultBookID   string
	SessionTTL      time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		UpstreamBaseURL: envOr("UPSTREAM_BASE_URL", "https://api.lexibook.example.com"),
		UpstreamTimeout: envDurOr("UPSTREAM_TIMEOUT", 15*time.Second),
		CachePath:       envOr("CACHE_PATH", "file:lexibook-cache.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		PageSize:        envIntOr("PAGE_SIZE", 20),
		DefaultBookID:   envOr("DEFAULT_BOOK_ID", "book_default"),
		SessionTTL:      envDurOr("SESSION_TTL", 30*time.Minute),
	}
}

// Validate reports every configuration problem at once so operators can fix
// them in a single pass.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.UpstreamBaseURL == "" {
		problems = append(problems, "UPSTREAM_BASE_URL cannot be empty")
	}
	if c.UpstreamTimeout <= 0 {
		problems = append(problems, "UPSTREAM_TIMEOUT must be positive")
	}
	if c.CachePath == "" {
		problems = append(problems, "CACHE_PATH cannot be empty")
	}
	if c.PageSize <= 0 || c.PageSize > 200 {
		problems = append(problems, "PAGE_SIZE must be between 1 and 200")
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
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
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
