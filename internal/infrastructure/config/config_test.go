package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "billing-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8000", cfg.App.Port)
		assert.Equal(t, DriverMongoDB, cfg.Database.Driver)
		assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
		assert.Equal(t, "billing", cfg.Database.Name)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "billing-backend", cfg.Telemetry.ServiceName)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.False(t, cfg.Telemetry.MetricsEnabled)
		assert.Equal(t, 60*time.Second, cfg.Telemetry.MetricsInterval)
		assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
		assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodySize)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
		assert.Contains(t, cfg.HTTP.CORSAllowMethods, "PATCH")
		assert.False(t, cfg.Database.AutoMigrate)
	})

	t.Run("loads values from environment variables with BILLING prefix", func(t *testing.T) {
		t.Setenv("BILLING_APP_NAME", "test-app")
		t.Setenv("BILLING_APP_PORT", "9000")
		t.Setenv("BILLING_DATABASE_DRIVER", "Postgres")
		t.Setenv("BILLING_DATABASE_HOST", "testdb.local")
		t.Setenv("BILLING_DATABASE_PORT", "5433")
		t.Setenv("BILLING_DATABASE_USER", "testuser")
		t.Setenv("BILLING_DATABASE_PASSWORD", "testpass")
		t.Setenv("BILLING_DATABASE_DBNAME", "testdb")
		t.Setenv("BILLING_LOG_FORMAT", "JSON")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.True(t, cfg.Database.IsSQL())
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "test-app", cfg.Telemetry.ServiceName)
	})

	t.Run("splits list values from environment", func(t *testing.T) {
		t.Setenv("BILLING_HTTP_CORS_ALLOW_ORIGINS", "http://admin.local,http://shop.local")
		t.Setenv("BILLING_HTTP_REQUEST_TIMEOUT", "3s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, []string{"http://admin.local", "http://shop.local"}, cfg.HTTP.CORSAllowOrigins)
		assert.Equal(t, 3*time.Second, cfg.HTTP.RequestTimeout)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("BILLING_DATABASE_DRIVER", "redis")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("BILLING_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("BILLING_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		t.Setenv("BILLING_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.max_idle_conns")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		t.Setenv("BILLING_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.sampling_ratio")
	})

	t.Run("production rejects sqlite", func(t *testing.T) {
		t.Setenv("BILLING_APP_ENV", "production")
		t.Setenv("BILLING_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("production rejects wildcard origin", func(t *testing.T) {
		t.Setenv("BILLING_APP_ENV", "production")
		t.Setenv("BILLING_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "billing",
		Password: "p@ss word",
		DBName:   "billing",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://billing:p%40ss%20word@db:5432/billing?sslmode=disable", cfg.DSN())
}

func TestConfigKey(t *testing.T) {
	assert.Equal(t, "database.max_open_conns", configKey("Config.database.max_open_conns"))
	assert.Equal(t, "http.cors_allow_origins", configKey("Config.http.cors_allow_origins"))
	assert.Equal(t, "app", configKey("app"))
}
