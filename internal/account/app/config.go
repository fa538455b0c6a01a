package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	PublicURL         string        // External base URL, used for provider callbacks (default: http://localhost:8080)
	PublicClientID    string        // The single public client id (default: self)
	AccessTokenTTL    time.Duration // Bearer token lifetime (default: 20m)
	ExternalCookieTTL time.Duration // External sign-in cookie lifetime (default: 5m)
	MinPasswordLength int           // Minimum local password length (default: 6)

	SecretFile       string   // Token protection secret, generated if missing (default: ./secret)
	DatabaseFile     string   // SQLite database file (default: ./account.db)
	PepperFile       string   // Password pepper file (default: ./pepper)
	ProvidersFile    string   // Optional: YAML file describing external providers
	AllowedRedirects []string // Optional: absolute origins accepted as redirect_uri

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		PublicURL:         getEnvOrDefault("ACCOUNT_PUBLIC_URL", "http://localhost:8080"),
		PublicClientID:    getEnvOrDefault("ACCOUNT_PUBLIC_CLIENT_ID", "self"),
		AccessTokenTTL:    getEnvDurationOrDefault("ACCOUNT_ACCESS_TOKEN_TTL", 20*time.Minute),
		ExternalCookieTTL: getEnvDurationOrDefault("ACCOUNT_EXTERNAL_COOKIE_TTL", 5*time.Minute),
		MinPasswordLength: getEnvIntOrDefault("ACCOUNT_PASSWORD_MIN_LENGTH", 6),

		SecretFile:       getEnvOrDefault("ACCOUNT_SECRET_FILE", "secret"),
		DatabaseFile:     getEnvOrDefault("ACCOUNT_DATABASE_FILE", "account.db"),
		PepperFile:       getEnvOrDefault("ACCOUNT_PEPPER_FILE", "pepper"),
		ProvidersFile:    os.Getenv("ACCOUNT_PROVIDERS_FILE"),
		AllowedRedirects: getEnvList("ACCOUNT_ALLOWED_REDIRECTS"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
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

	if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}

	// Plain integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks and trailing
// slashes so origins compare cleanly.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		item = strings.TrimSuffix(strings.TrimSpace(item), "/")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
