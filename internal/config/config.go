package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// DefaultJWTSecret is the development fallback used when JWT_SECRET is unset
const DefaultJWTSecret = "dev-secret-change-me"

// Config holds the application configuration
type Config struct {
	AppPort           string // Application port
	SQLitePath        string // Path to the SQLite database file
	JWTSecret         string // JWT signing secret
	JWTSecretIsDev    bool   // True when the development fallback secret is in use
	JWTTTLHours       int    // User token lifetime in hours
	AdminJWTTTLHours  int    // Admin token lifetime in hours
	AdminPassword     string // Shared secret for the admin panel login
	WebhookURL        string // Upstream AI webhook endpoint
	WebhookAPIKey     string // API key sent to the upstream webhook
	StaticDir         string // Directory of the static site to serve
	TrustProxy        bool   // Trust X-Forwarded-For from the reverse proxy
	IsProd            bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	secret := os.Getenv("JWT_SECRET")
	usingDev := secret == ""
	if usingDev {
		secret = DefaultJWTSecret // Development fallback, surfaced as a warning at registration
	}
	return &Config{
		AppPort:          envOr("PORT", "3000"),                // Application port
		SQLitePath:       envOr("SQLITE_PATH", "data.sqlite"),  // SQLite file path
		JWTSecret:        secret,                               // JWT signing secret
		JWTSecretIsDev:   usingDev,                             // Development secret in use
		JWTTTLHours:      envIntOr("JWT_TTL_HOURS", 720),       // User tokens live 30 days by default
		AdminJWTTTLHours: envIntOr("ADMIN_JWT_TTL_HOURS", 12),  // Admin tokens live 12 hours by default
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),          // Admin shared secret
		WebhookURL:       os.Getenv("MAKE_WEBHOOK_URL"),        // Upstream webhook URL
		WebhookAPIKey:    os.Getenv("MAKE_API_KEY"),            // Upstream API key
		StaticDir:        envOr("STATIC_DIR", "public"),        // Static site directory
		TrustProxy:       os.Getenv("TRUST_PROXY") == "true",   // Proxy trust mode
		IsProd:           os.Getenv("IS_PROD") == "true",       // Is production environment
	}
}

// envOr returns the environment variable value or a default when unset
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envIntOr returns the environment variable as an int or a default when unset/invalid
func envIntOr(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}
