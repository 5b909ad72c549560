package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "SLOT_CACHE_TTL", "DAYOFF_PLAN_TTL", "STORAGE_DRIVER", "DEFAULT_TIMEZONE", "REDIS_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 5*time.Minute, cfg.SlotCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.DayOffPlanTTL)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "America/Sao_Paulo", cfg.DefaultTimezone)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SLOT_CACHE_TTL", "30s")
	t.Setenv("DAYOFF_PLAN_TTL", "not-a-duration")
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("DEFAULT_TIMEZONE", "Mars/Olympus")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.SlotCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.DayOffPlanTTL)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "America/Sao_Paulo", cfg.DefaultTimezone)
}
