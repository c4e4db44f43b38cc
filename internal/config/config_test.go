package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "SQLITE_PATH", "JWT_SECRET", "JWT_TTL_HOURS", "ADMIN_JWT_TTL_HOURS", "TRUST_PROXY", "IS_PROD", "STATIC_DIR"} {
		t.Setenv(key, "")
	}

	c := LoadConfig()
	require.NotNil(t, c)

	assert.Equal(t, "3000", c.AppPort)
	assert.Equal(t, "data.sqlite", c.SQLitePath)
	assert.Equal(t, DefaultJWTSecret, c.JWTSecret)
	assert.True(t, c.JWTSecretIsDev)
	assert.Equal(t, 720, c.JWTTTLHours)
	assert.Equal(t, 12, c.AdminJWTTTLHours)
	assert.Equal(t, "public", c.StaticDir)
	assert.False(t, c.TrustProxy)
	assert.False(t, c.IsProd)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SQLITE_PATH", "/var/lib/app/data.sqlite")
	t.Setenv("JWT_SECRET", "real-secret")
	t.Setenv("JWT_TTL_HOURS", "24")
	t.Setenv("ADMIN_JWT_TTL_HOURS", "1")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("MAKE_WEBHOOK_URL", "https://hook.example.com/x")
	t.Setenv("MAKE_API_KEY", "k")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("IS_PROD", "true")

	c := LoadConfig()

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "/var/lib/app/data.sqlite", c.SQLitePath)
	assert.Equal(t, "real-secret", c.JWTSecret)
	assert.False(t, c.JWTSecretIsDev)
	assert.Equal(t, 24, c.JWTTTLHours)
	assert.Equal(t, 1, c.AdminJWTTTLHours)
	assert.Equal(t, "hunter2", c.AdminPassword)
	assert.Equal(t, "https://hook.example.com/x", c.WebhookURL)
	assert.Equal(t, "k", c.WebhookAPIKey)
	assert.True(t, c.TrustProxy)
	assert.True(t, c.IsProd)
}

func TestEnvIntOrIgnoresInvalid(t *testing.T) {
	t.Setenv("JWT_TTL_HOURS", "not-a-number")
	c := LoadConfig()
	assert.Equal(t, 720, c.JWTTTLHours)

	t.Setenv("JWT_TTL_HOURS", "-5")
	c = LoadConfig()
	assert.Equal(t, 720, c.JWTTTLHours)
}
