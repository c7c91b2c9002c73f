package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// EnvPrefix is the prefix for environment overrides, e.g. RENTCALC_LOG_LEVEL
const EnvPrefix = "RENTCALC"

// Settings are the application settings, as opposed to the projection inputs
type Settings struct {
	LogLevel string        `mapstructure:"log_level"`
	Format   string        `mapstructure:"format"`
	Workers  int           `mapstructure:"workers"`
	Cache    CacheSettings `mapstructure:"cache"`
}

// CacheSettings selects and configures the sweep result cache
type CacheSettings struct {
	Backend     string        `mapstructure:"backend"`
	MaxEntries  int           `mapstructure:"max_entries"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
	TTL         time.Duration `mapstructure:"ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("format", "console")
	v.SetDefault("workers", runtime.NumCPU())

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.max_entries", 1024)
	v.SetDefault("cache.redis_addr", "127.0.0.1:6379")
	v.SetDefault("cache.redis_prefix", "rentcalc:")
	v.SetDefault("cache.ttl", 24*time.Hour)
}

// NewViper returns a viper instance with defaults and RENTCALC_ environment
// overrides applied. Nested keys map to underscores: RENTCALC_CACHE_BACKEND.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads the settings file when path is set, then applies
// environment overrides on top of the defaults.
func LoadSettings(v *viper.Viper, path string) (*Settings, error) {
	if v == nil {
		v = NewViper()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading settings file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks enumerated values and normalizes their case
func (s *Settings) Validate() error {
	var errs []error

	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn or error, got %q", s.LogLevel))
	}

	s.Cache.Backend = strings.ToLower(strings.TrimSpace(s.Cache.Backend))
	switch s.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if s.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be none, memory or redis, got %q", s.Cache.Backend))
	}

	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers cannot be negative"))
	}
	return errors.Join(errs...)
}
