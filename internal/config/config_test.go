package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8190), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8190", cfg.Address())
	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, DefaultDataPath, cfg.Storage.DataPath)
	assert.Equal(t, "brs:data:v3", cfg.Cache.Key)
	assert.Equal(t, PersistAsync, cfg.Persist.Mode)
	assert.Equal(t, 10*time.Second, cfg.Persist.Timeout)
	assert.Equal(t, "* * * * *", cfg.Scheduler.ReleaseWatchSchedule)
	assert.Equal(t, "admin@example.com", cfg.Bootstrap.AdminEmail)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.False(t, cfg.ReadOnly)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("PERSIST_MODE", "outbox")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("LOGIN_WINDOW", "1m")
	t.Setenv("READ_ONLY", "true")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, StorageSQLite, cfg.Storage.Backend)
	assert.Equal(t, PersistOutbox, cfg.Persist.Mode)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Minute, cfg.Auth.RateLimitWindow)
	assert.True(t, cfg.ReadOnly)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]func(*Config){
		"unknown backend":        func(c *Config) { c.Storage.Backend = "s3" },
		"http backend needs url": func(c *Config) { c.Storage.Backend = StorageHTTP },
		"unknown persist mode":   func(c *Config) { c.Persist.Mode = "sync" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
