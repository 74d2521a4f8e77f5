package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/portal")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreBackendPostgres, cfg.StoreBackend)
	assert.Equal(t, 12*time.Hour, cfg.FXRateTTL)
	assert.Equal(t, int64(1048576), cfg.MaxBodyBytes)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/portal")
	t.Setenv("FX_RATE_TTL", "30m")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.FXRateTTL)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.False(t, cfg.MetricsEnabled)
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseURL:        "postgres://localhost/portal",
		StoreBackend:       StoreBackendPostgres,
		MaxBodyBytes:       4096,
		RateLimitPerMinute: 10,
		FXRateTTL:          time.Hour,
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database", func(c *Config) { c.DatabaseURL = "" }},
		{"unknown backend", func(c *Config) { c.StoreBackend = "firestore" }},
		{"datastore without project", func(c *Config) { c.StoreBackend = StoreBackendDatastore }},
		{"production without secret", func(c *Config) { c.Environment = "production" }},
		{"production with dev secret", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = devJWTSecret
			c.DataEncryptionKey = "k"
			c.SeedAdminPassword = "p"
		}},
		{"tiny body limit", func(c *Config) { c.MaxBodyBytes = 10 }},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }},
		{"zero fx ttl", func(c *Config) { c.FXRateTTL = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
