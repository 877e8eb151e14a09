package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, used, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
log:
  level: debug
  format: json
database:
  dsn: postgres://lagref@localhost/lagref
  max_conns: 20
cache:
  ttl: 30s
ingest:
  workers: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("LAGREF_INGEST_WORKERS", "8")

	cfg, used, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "postgres://lagref@localhost/lagref", cfg.Database.DSN)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, int32(1), cfg.Database.MinConns)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 8, cfg.Ingest.Workers)
}

func TestLoadDefaultPathFromHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".lagref"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".lagref", "config.yaml"), []byte("log:\n  level: warn\n"), 0o600))

	cfg, used, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".lagref", "config.yaml"), used)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Ingest.Workers = 0 }},
		{"negative conns", func(c *Config) { c.Database.MaxConns = -1 }},
		{"min above max", func(c *Config) { c.Database.MinConns = 50 }},
		{"cache without ttl", func(c *Config) { c.Cache.TTL = 0 }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigYAML(t *testing.T) {
	data, err := yaml.Marshal(Default())
	require.NoError(t, err)
	assert.Contains(t, string(data), "workers: 4")
	assert.Contains(t, string(data), "format: console")
}
