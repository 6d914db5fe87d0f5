package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *ProductionConfig {
	return &ProductionConfig{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
		},
		Sheet: SheetConfig{
			Worksheet: "call_log",
			CheckTTL:  5 * time.Minute,
		},
		LocalStore: LocalStoreConfig{Path: "call_log_local.json"},
		Datasets:   DatasetsConfig{Dir: "."},
		Logging:    LoggingConfig{Level: "info"},
		Metrics:    MetricsConfig{Enabled: true, Port: 9090, Path: "/metrics"},
		Cache:      CacheConfig{Enabled: false},
	}
}

func TestLoadProductionConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadProductionConfig()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "call_log", cfg.Sheet.Worksheet)
		assert.Equal(t, 5*time.Minute, cfg.Sheet.CheckTTL)
		assert.Equal(t, "call_log_local.json", cfg.LocalStore.Path)
		assert.Equal(t, ".", cfg.Datasets.Dir)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.False(t, cfg.Cache.Enabled)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("SHEET_PATH", "/srv/share/call_log.xlsx")
		t.Setenv("SHEET_CHECK_TTL", "1m")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

		cfg, err := LoadProductionConfig()
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "/srv/share/call_log.xlsx", cfg.Sheet.Path)
		assert.Equal(t, time.Minute, cfg.Sheet.CheckTTL)
		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Security.AllowedOrigins)
	})

	t.Run("MalformedValuesFallBackToDefaults", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "not-a-number")
		t.Setenv("SHEET_CHECK_TTL", "soon")

		cfg, err := LoadProductionConfig()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 5*time.Minute, cfg.Sheet.CheckTTL)
	})
}

func TestValidateProductionConfig(t *testing.T) {
	t.Run("ValidPasses", func(t *testing.T) {
		assert.NoError(t, ValidateProductionConfig(validConfig()))
	})

	t.Run("BadServerPort", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Port = 0
		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SERVER_PORT")
	})

	t.Run("MissingWorksheet", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sheet.Worksheet = ""
		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SHEET_WORKSHEET")
	})

	t.Run("BadLogLevel", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "verbose"
		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOG_LEVEL")
	})

	t.Run("MetricsPortClash", func(t *testing.T) {
		cfg := validConfig()
		cfg.Metrics.Port = cfg.Server.Port
		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "METRICS_PORT")
	})

	t.Run("CacheNeedsRedisURL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Cache.Enabled = true
		cfg.Cache.RedisURL = ""
		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CACHE_REDIS_URL")
	})
}
