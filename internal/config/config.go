package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultLoginURL is where the user lands when the backend requires a new sign-in
const DefaultLoginURL = "/login"

// Config holds all configuration for the application
type Config struct {
	// Recipe backend the API client talks to
	API APIConfig

	// External identity provider (Supabase auth)
	Identity IdentityConfig

	// Local stub backend used for development and integration tests
	Stub StubConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds the recipe backend configuration
type APIConfig struct {
	BaseURL  string // Empty means the client refuses every call
	LoginURL string // Fallback login URL when a 401 payload carries none
	SiteURL  string // Origin that relative login URLs are resolved against
}

// IdentityConfig holds the identity provider configuration
type IdentityConfig struct {
	URL         string
	AnonKey     string
	Headless    bool   // No interactive context: no navigation, stand-in provider
	AccessToken string // Explicit token, bypasses sign-in
}

// StubConfig holds configuration for the stub backend
type StubConfig struct {
	Addr                string
	JWTSecret           string
	DatabaseURL         string
	AllowedOrigins      []string
	AllowedEmailDomains []string
	LoginURL            string
	SeedFile            string // YAML fixtures loaded at startup
	TokenSweepSchedule  string // Cron expression for pruning refresh tokens
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	loginURL := getEnv("RECIPES_LOGIN_URL", DefaultLoginURL)

	return &Config{
		API: APIConfig{
			BaseURL:  strings.TrimRight(os.Getenv("RECIPES_API_BASE_URL"), "/"),
			LoginURL: loginURL,
			SiteURL:  strings.TrimRight(getEnv("RECIPES_SITE_URL", "http://localhost:3000"), "/"),
		},
		Identity: IdentityConfig{
			URL:         strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
			AnonKey:     os.Getenv("SUPABASE_ANON_KEY"),
			Headless:    parseBool(os.Getenv("RECIPES_HEADLESS")),
			AccessToken: os.Getenv("RECIPES_ACCESS_TOKEN"),
		},
		Stub: StubConfig{
			Addr:                getEnv("STUB_ADDR", ":8000"),
			JWTSecret:           getEnv("STUB_JWT_SECRET", "stub-secret-change-me"),
			DatabaseURL:         getEnv("STUB_DATABASE_URL", "file::memory:?cache=shared"),
			AllowedOrigins:      splitList(getEnv("STUB_ALLOWED_ORIGINS", "http://localhost:3000")),
			AllowedEmailDomains: splitList(os.Getenv("STUB_ALLOWED_EMAIL_DOMAINS")),
			LoginURL:            loginURL,
			SeedFile:            os.Getenv("STUB_SEED_FILE"),
			TokenSweepSchedule:  getEnv("STUB_TOKEN_SWEEP_SCHEDULE", "0 * * * *"),
		},
		// CLI output goes to the terminal, keep logs quiet unless asked
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "warn"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// splitList parses a comma separated list, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
