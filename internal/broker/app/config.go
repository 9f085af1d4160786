package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer string // Issuer claim for access tokens (default: veil-broker)

	DatabaseFile string // Path to SQLite database file (default: ./broker.db)

	NotifyBaseURL string // Optional: delivery gateway base URL; log-only when empty
	NotifyAPIKey  string // Optional: delivery gateway API key
	NotifySender  string // Optional: sender identity shown to recipients

	SessionTTL     time.Duration // Access token and session lifetime (default: 24h)
	ChallengeTTL   time.Duration // One-time code lifetime (default: 10m)
	ResendCooldown time.Duration // Minimum gap between code issues (default: 60s)
	MaxAttempts    int           // Failed validations before a code burns (default: 5)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 15m)
}

func LoadConfig() Config {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	return Config{
		Issuer:       getEnvOrDefault("BROKER_ISSUER", "veil-broker"),
		DatabaseFile: getEnvOrDefault("BROKER_DATABASE_FILE", "broker.db"),

		NotifyBaseURL: os.Getenv("BROKER_NOTIFY_BASE_URL"),
		NotifyAPIKey:  os.Getenv("BROKER_NOTIFY_API_KEY"),
		NotifySender:  getEnvOrDefault("BROKER_NOTIFY_SENDER", "veil"),

		SessionTTL:     getEnvDurationOrDefault("BROKER_SESSION_TTL", 24*time.Hour),
		ChallengeTTL:   getEnvDurationOrDefault("BROKER_CHALLENGE_TTL", 10*time.Minute),
		ResendCooldown: getEnvDurationOrDefault("BROKER_RESEND_COOLDOWN", 60*time.Second),
		MaxAttempts:    getEnvIntOrDefault("BROKER_MAX_ATTEMPTS", 5),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
