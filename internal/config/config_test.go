package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, "en", cfg.App.Locale)
	assert.Equal(t, int64(10), cfg.App.PageSize)
	assert.Equal(t, "https://reqres.in/api", cfg.Upstream.BaseURL)
	assert.Equal(t, 10, cfg.Upstream.TimeoutSeconds)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateStub())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "HTTP_PORT=9000\nAPP_LOCALE=ru\nUPSTREAM_BASE_URL=http://localhost:8090/api/\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	t.Setenv("PAGINATION_PAGE_SIZE", "6")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.HTTPPort)
	assert.Equal(t, "ru", cfg.App.Locale)
	assert.Equal(t, "http://localhost:8090/api", cfg.Upstream.BaseURL)
	assert.Equal(t, int64(6), cfg.App.PageSize)
}

func TestLoadConfig_ProductionLoggerDefaults(t *testing.T) {
	t.Run("from environment", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "production", cfg.App.Env)
		assert.Equal(t, "info", cfg.Logger.Level)
		assert.Equal(t, "json", cfg.Logger.Format)
		assert.True(t, cfg.Logger.EnableSampling)
	})

	t.Run("from app.env", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte("APP_ENV=production\n"), 0o600))

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.Logger.Level)
		assert.Equal(t, "json", cfg.Logger.Format)
	})

	t.Run("explicit level wins", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("LOG_LEVEL", "warn")

		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "warn", cfg.Logger.Level)
		assert.Equal(t, "json", cfg.Logger.Format)
	})

	t.Run("development", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, "console", cfg.Logger.Format)
		assert.False(t, cfg.Logger.EnableSampling)
	})
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	t.Run("relative upstream", func(t *testing.T) {
		cfg := base(t)
		cfg.Upstream.BaseURL = "/api"
		assert.ErrorContains(t, cfg.Validate(), "UPSTREAM_BASE_URL")
	})

	t.Run("rate limit without redis", func(t *testing.T) {
		cfg := base(t)
		cfg.RateLimit.Enabled = true
		assert.ErrorContains(t, cfg.Validate(), "requires REDIS_ENABLED")
	})

	t.Run("feed without redis", func(t *testing.T) {
		cfg := base(t)
		cfg.Notify.FeedEnabled = true
		assert.ErrorContains(t, cfg.Validate(), "NOTIFY_FEED_ENABLED requires REDIS_ENABLED")
	})

	t.Run("zero page size", func(t *testing.T) {
		cfg := base(t)
		cfg.App.PageSize = 0
		assert.ErrorContains(t, cfg.Validate(), "PAGINATION_PAGE_SIZE")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := base(t)
		cfg.DB.Driver = "mysql"
		assert.ErrorContains(t, cfg.ValidateStub(), "unsupported DB_DRIVER")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", c.DSN())
}
