package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMapDefaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Minute, cfg.Badger.GCInterval)
	assert.True(t, cfg.Badger.SyncWrites)
	assert.Equal(t, 5, cfg.Breaker.FailureThreshold)
	assert.Equal(t, 10*time.Second, cfg.Breaker.Cooldown)
}

func TestFromMapOverrides(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"CENSUS_ADDR":               ":9000",
		"CENSUS_STORE":              "redis",
		"CENSUS_REDIS_URL":          "redis://localhost:6379/0",
		"CENSUS_REDIS_POOL_SIZE":    "32",
		"CENSUS_BADGER_PATH":        "/var/lib/census",
		"CENSUS_LOG_FORMAT":         "json",
		"CENSUS_REQUEST_TIMEOUT":    "2s",
		"CENSUS_BADGER_SYNC_WRITES": "false",
		"CENSUS_BREAKER_COOLDOWN":   "30s",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
	assert.Equal(t, "/var/lib/census", cfg.Badger.Path)
	assert.False(t, cfg.Badger.SyncWrites)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.Breaker.Cooldown)
}

func TestFromMapRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"unknown store", map[string]string{"CENSUS_STORE": "mongo"}},
		{"postgres without dsn", map[string]string{"CENSUS_STORE": "postgres"}},
		{"redis without url", map[string]string{"CENSUS_STORE": "redis"}},
		{"bad log format", map[string]string{"CENSUS_LOG_FORMAT": "xml"}},
		{"bad duration", map[string]string{"CENSUS_REQUEST_TIMEOUT": "soon"}},
		{"zero body cap", map[string]string{"CENSUS_MAX_BODY_BYTES": "0"}},
		{"zero breaker threshold", map[string]string{"CENSUS_BREAKER_FAILURE_THRESHOLD": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMap(tt.vars)
			assert.Error(t, err)
		})
	}
}
