// Package config loads lagref settings. Sources in priority order: command
// line flags, LAGREF_* environment variables, ~/.lagref/config.yaml, and
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (LAGREF_DATABASE_DSN).
const EnvPrefix = "LAGREF"

// Config is the full lagref configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Ingest   IngestConfig   `mapstructure:"ingest" yaml:"ingest"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DatabaseConfig controls the PostgreSQL connection. An empty DSN selects the
// in-memory store.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn" yaml:"dsn"`
	MaxConns        int32         `mapstructure:"max_conns" yaml:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns" yaml:"min_conns"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time" yaml:"max_conn_idle_time"`
	QueryDebug      bool          `mapstructure:"query_debug" yaml:"query_debug"`
}

// CacheConfig controls the lookup cache in front of the store.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL             time.Duration `mapstructure:"ttl" yaml:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

// IngestConfig controls batch ingestion.
type IngestConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Database: DatabaseConfig{
			MaxConns:        10,
			MinConns:        1,
			MaxConnIdleTime: 5 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             10 * time.Minute,
			CleanupInterval: 15 * time.Minute,
		},
		Ingest: IngestConfig{
			Workers: 4,
		},
	}
}

// SetDefaults registers Default() with v so every key is known to viper and
// can be overridden from the environment.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.max_conns", d.Database.MaxConns)
	v.SetDefault("database.min_conns", d.Database.MinConns)
	v.SetDefault("database.max_conn_idle_time", d.Database.MaxConnIdleTime)
	v.SetDefault("database.query_debug", d.Database.QueryDebug)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.cleanup_interval", d.Cache.CleanupInterval)
	v.SetDefault("ingest.workers", d.Ingest.Workers)
}

// DefaultPath returns ~/.lagref/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error finding home directory: %w", err)
	}
	return filepath.Join(home, ".lagref", "config.yaml"), nil
}

// Load reads configuration into v and decodes it. cfgFile overrides the
// default search path; a missing default file is not an error. It returns the
// config file actually used, if any.
func Load(v *viper.Viper, cfgFile string) (Config, string, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".lagref"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Ingest.Workers < 1 {
		return fmt.Errorf("ingest.workers must be at least 1, got %d", c.Ingest.Workers)
	}
	if c.Database.MaxConns < 0 || c.Database.MinConns < 0 {
		return fmt.Errorf("database connection limits must not be negative")
	}
	if c.Database.MaxConns > 0 && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds database.max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled")
	}
	return nil
}
