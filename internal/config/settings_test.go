package config

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, "console", s.Format)
	assert.Equal(t, runtime.NumCPU(), s.Workers)
	assert.Equal(t, CacheMemory, s.Cache.Backend)
	assert.Equal(t, 1024, s.Cache.MaxEntries)
	assert.Equal(t, 24*time.Hour, s.Cache.TTL)
}

func TestLoadSettings_File(t *testing.T) {
	s, err := LoadSettings(nil, filepath.Join("testdata", "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "json", s.Format)
	assert.Equal(t, 2, s.Workers)
	assert.Equal(t, CacheRedis, s.Cache.Backend)
	assert.Equal(t, "cache.internal:6379", s.Cache.RedisAddr)
	assert.Equal(t, time.Hour, s.Cache.TTL)
	assert.Equal(t, "rentcalc:", s.Cache.RedisPrefix, "unset keys keep defaults")
}

func TestLoadSettings_Env(t *testing.T) {
	t.Setenv("RENTCALC_LOG_LEVEL", "debug")
	t.Setenv("RENTCALC_WORKERS", "3")
	t.Setenv("RENTCALC_CACHE_BACKEND", "none")

	s, err := LoadSettings(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 3, s.Workers)
	assert.Equal(t, CacheNone, s.Cache.Backend)
}

func TestLoadSettings_Errors(t *testing.T) {
	_, err := LoadSettings(nil, filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("RENTCALC_CACHE_BACKEND", "memcached")
	_, err = LoadSettings(NewViper(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.backend")
}

func TestSettingsValidate(t *testing.T) {
	s := Settings{LogLevel: "verbose", Workers: -1, Cache: CacheSettings{Backend: "redis"}}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "redis_addr")

	s = Settings{LogLevel: " Error ", Cache: CacheSettings{Backend: "MEMORY"}}
	require.NoError(t, s.Validate())
	assert.Equal(t, "error", s.LogLevel)
	assert.Equal(t, CacheMemory, s.Cache.Backend)
}
