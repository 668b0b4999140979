package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageFile, cfg.StorageDriver)
	assert.Equal(t, time.Second, cfg.SimulatedLatency)
	assert.False(t, cfg.ApprovalWriteback)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("SIMULATED_LATENCY", "0")
	t.Setenv("ACCESS_TOKEN_TTL", "90")
	t.Setenv("APPROVAL_WRITEBACK", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://leave.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Zero(t, cfg.SimulatedLatency)
	assert.Equal(t, 90*time.Second, cfg.AccessTokenTTL)
	assert.True(t, cfg.ApprovalWriteback)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:5173", "https://leave.example.com"}, cfg.CORSOrigins)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("STORAGE_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := Load()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("STORAGE_DRIVER", "redis")
		_, err := Load()
		assert.ErrorContains(t, err, "redis")
	})
}
