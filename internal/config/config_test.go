package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Pipeline.MaxConcurrency)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL())
	assert.Equal(t, 120*time.Second, cfg.CacheSweep())
	assert.Zero(t, cfg.RunTimeout())
	assert.Equal(t, "google", cfg.Pipeline.DefaultSource)
	assert.Equal(t, "__EMPTY_1", cfg.Portfolio.Columns.Name)
}

func TestLoad_FileThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server": {"port": "9000"},
		"cache": {"ttl_sec": 30},
		"portfolio": {"path": "/srv/p.json"},
		"yahoo": {"home_suffix": ".BO"}
	}`), 0o644))
	t.Setenv("PORT", "9100")
	t.Setenv("MAX_CONCURRENCY", "5")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("GOOGLE_ENABLED", "no")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Cache.TTLSeconds)
	assert.Equal(t, 120, cfg.Cache.SweepSeconds)
	assert.Equal(t, "/srv/p.json", cfg.Portfolio.Path)
	assert.Equal(t, ".BO", cfg.Yahoo.HomeSuffix)
	assert.Equal(t, 5, cfg.Pipeline.MaxConcurrency)
	assert.True(t, cfg.Log.Pretty)
	assert.False(t, cfg.Google.Enabled)
	// columns not in the file keep their defaults
	assert.Equal(t, "__EMPTY_30", cfg.Portfolio.Columns.Stage2)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CACHE_TTL_SEC=0\nPORTFOLIO_FILE=holdings.json\n"), 0o644))
	t.Setenv("CACHE_TTL_SEC", "")
	t.Setenv("PORTFOLIO_FILE", "")
	os.Unsetenv("CACHE_TTL_SEC")
	os.Unsetenv("PORTFOLIO_FILE")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Zero(t, cfg.CacheTTL())
	assert.Equal(t, "holdings.json", cfg.Portfolio.Path)
}

func TestLoad_BadJSON(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestEnvInt_IgnoresBelowMinimum(t *testing.T) {
	t.Setenv("MAX_CONCURRENCY", "0")
	t.Setenv("RUN_TIMEOUT_SEC", "abc")
	cfg := Default()
	applyEnv(&cfg)
	assert.Equal(t, 3, cfg.Pipeline.MaxConcurrency)
	assert.Zero(t, cfg.Pipeline.RunTimeoutSec)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.MaxConcurrency = 0
	cfg.Yahoo.Enabled = false
	cfg.Google.Enabled = false

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "MaxConcurrency")
	assert.ErrorContains(t, err, "at least one")
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"port not numeric", func(c *Config) { c.Server.Port = "http" }, "Port"},
		{"unknown log level", func(c *Config) { c.Log.Level = "trace" }, "Level"},
		{"no portfolio", func(c *Config) { c.Portfolio.Path = "" }, "Path"},
		{"unknown default source", func(c *Config) { c.Pipeline.DefaultSource = "bing" }, "DefaultSource"},
		{"bad base url", func(c *Config) { c.Google.BaseURL = "not a url" }, "BaseURL"},
		{"negative ttl", func(c *Config) { c.Cache.TTLSeconds = -1 }, "TTLSeconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.field)
		})
	}
}

func TestValidate_SweepRequiredWithCache(t *testing.T) {
	cfg := Default()
	cfg.Cache.SweepSeconds = 0
	assert.ErrorContains(t, cfg.Validate(), "sweep_sec")

	cfg.Cache.TTLSeconds = 0
	assert.NoError(t, cfg.Validate())
}
