package app

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// =========================== REQUIRED ===========================

	// Database configuration (required)
	DSN *string

	// =========================== OPTIONAL ===========================

	// Logging configuration
	LogLevel *string

	// HTTP server configuration
	Port *string

	// CORS configuration
	AllowOrigins *[]string

	// Migration configuration
	MigrationPath *string

	// Redis configuration. Empty disables the event cache.
	RedisAddr *string

	// HedgeDoc note service
	HedgedocURL *string

	// Excalidraw whiteboard base URL
	ExcalidrawURL *string

	// CTFTime calendar API
	CtftimeAPIURL *string
	EventCacheTTL *time.Duration

	// Challenge file storage
	ChallengeFileRoot *string

	// Outgoing email. Loaded for completeness, delivery is not wired yet.
	EmailHost     *string
	EmailPort     *string
	EmailUsername *string
	EmailPassword *string
}

func NewAppConfig() *AppConfig {
	config := &AppConfig{}

	// Load required configuration
	loadRequiredConfig(config)

	// Load optional configuration with defaults
	loadOptionalConfig(config)

	return config
}

// loadRequiredConfig loads all required configuration values and fails fast if any are missing
func loadRequiredConfig(config *AppConfig) {
	// Database URL (required)
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatalf("REQUIRED: DB_URL not set in environment")
	}
	config.DSN = &dsn

	// CORS origins (required in production, optional in development)
	loadCORSConfig(config)
}

// loadOptionalConfig loads all optional configuration values with sensible defaults
func loadOptionalConfig(config *AppConfig) {
	// HTTP server port (default: 8080)
	port := getEnvWithDefault("PORT", "8080")
	config.Port = &port

	// Log level (default: debug)
	// Available levels: "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"
	logLevel := getEnvWithDefault("LOG_LEVEL", "debug")
	config.LogLevel = &logLevel

	// Migration path (default: file://migrations)
	migrationPath := getEnvWithDefault("MIGRATION_PATH", "file://migrations")
	config.MigrationPath = &migrationPath

	// Redis URL. When unset the CTFTime event cache is disabled and every
	// calendar request goes to the remote API.
	redisAddr := os.Getenv("REDIS_URL")
	config.RedisAddr = &redisAddr

	hedgedocURL := getEnvWithDefault("CTFPAD_HEDGEDOC_URL", "http://localhost:3000")
	config.HedgedocURL = &hedgedocURL

	excalidrawURL := getEnvWithDefault("CTFPAD_EXCALIDRAW_URL", "http://localhost:3001")
	config.ExcalidrawURL = &excalidrawURL

	ctftimeAPIURL := getEnvWithDefault("CTFTIME_API_EVENTS_URL", "https://ctftime.org/api/v1/events/")
	config.CtftimeAPIURL = &ctftimeAPIURL

	eventCacheTTL := getEventCacheTTL()
	config.EventCacheTTL = &eventCacheTTL

	challengeFileRoot := getEnvWithDefault("CTFPAD_FILE_ROOT", "uploads")
	config.ChallengeFileRoot = &challengeFileRoot

	loadEmailConfig(config)
}

// loadCORSConfig handles CORS origins configuration with environment-specific behavior
func loadCORSConfig(config *AppConfig) {
	allowOriginsStr := os.Getenv("ALLOW_ORIGINS")
	var allowOrigins []string

	if allowOriginsStr != "" {
		// Parse comma-separated origins
		origins := strings.Split(allowOriginsStr, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowOrigins = append(allowOrigins, origin)
			}
		}
	} else {
		// Handle missing ALLOW_ORIGINS based on environment
		environment := os.Getenv("ENVIRONMENT")
		if environment == "development" || environment == "dev" {
			// Default to localhost in development
			allowOrigins = []string{"http://localhost:5173"}
		} else {
			log.Fatalf("REQUIRED: ALLOW_ORIGINS not set in environment (required in production)")
		}
	}

	config.AllowOrigins = &allowOrigins
}

func loadEmailConfig(config *AppConfig) {
	emailHost := os.Getenv("CTFPAD_EMAIL_HOST")
	config.EmailHost = &emailHost

	emailPort := getEnvWithDefault("CTFPAD_EMAIL_PORT", "587")
	config.EmailPort = &emailPort

	emailUsername := os.Getenv("CTFPAD_EMAIL_USERNAME")
	config.EmailUsername = &emailUsername

	emailPassword := os.Getenv("CTFPAD_EMAIL_PASSWORD")
	config.EmailPassword = &emailPassword
}

// getEventCacheTTL parses the cache TTL in seconds with a default fallback
func getEventCacheTTL() time.Duration {
	ttlStr := os.Getenv("EVENT_CACHE_TTL")
	if ttlStr == "" {
		return 15 * time.Minute
	}

	if parsed, err := strconv.Atoi(ttlStr); err == nil && parsed > 0 {
		return time.Duration(parsed) * time.Second
	}

	log.Printf("Warning: Invalid EVENT_CACHE_TTL value '%s', using default 900 seconds", ttlStr)
	return 15 * time.Minute
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
