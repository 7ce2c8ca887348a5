package config_test

import (
	"testing"
	"time"

	"workzen/internal/shared/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PAYRUN_CRON", "")
	t.Setenv("DASHBOARD_CACHE_TTL", "")

	cfg := config.Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "0 0 1 * *", cfg.PayrunCron)
	assert.Equal(t, 10*time.Minute, cfg.DashboardCacheTTL)
	assert.True(t, cfg.RunMigrations)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "workzen")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("OUTBOX_POLL_INTERVAL", "750ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, 750*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			Database:       config.DatabaseConfig{Host: "db", Name: "workzen"},
			ConnectRetries: 5,
		}
	}

	t.Run("missing host", func(t *testing.T) {
		cfg := base()
		cfg.Database.Host = ""
		assert.EqualError(t, cfg.Validate(), "DB_HOST is required")
	})

	t.Run("weak secret in production", func(t *testing.T) {
		cfg := base()
		cfg.Environment = "production"
		cfg.JWTSecret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("seed admin without company", func(t *testing.T) {
		cfg := base()
		cfg.SeedAdminEmail = "admin@workzen.local"
		assert.Error(t, cfg.Validate())
	})
}
