package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Debug())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Analysis, cfg.Analysis)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.toml")
	content := `
[database]
path = "/var/lib/tcg/cards.db"

[analysis]
workers = 2
keyword_cache_size = 128

[server]
port = "9090"
allowed_origins = ["https://example.org"]

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("PORT", "7070")
	t.Setenv("DISABLE_AUGMENTER", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/tcg/cards.db", cfg.Database.Path)
	assert.Equal(t, "./data", cfg.Database.DataDir)
	assert.Equal(t, 2, cfg.Analysis.Workers)
	assert.Equal(t, 128, cfg.Analysis.KeywordCacheSize)
	assert.True(t, cfg.Analysis.DisableAugmenter)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Debug())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[analysis\nworkers = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnvInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"ANALYZER_WORKERS", "many"},
		{"KEYWORD_CACHE_SIZE", "1.5"},
		{"RATE_LIMIT_RPS", "fast"},
		{"RATE_LIMIT_BURST", "x"},
		{"DISABLE_AUGMENTER", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			env := map[string]string{tt.key: tt.value}
			err := DefaultConfig().applyEnv(func(k string) string { return env[k] })
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative workers", func(c *Config) { c.Analysis.Workers = -1 }, true},
		{"negative cache", func(c *Config) { c.Analysis.KeywordCacheSize = -5 }, true},
		{"cache disabled", func(c *Config) { c.Analysis.KeywordCacheSize = 0 }, false},
		{"negative rate", func(c *Config) { c.Server.RateLimitRPS = -1 }, true},
		{"rate without burst", func(c *Config) { c.Server.RateLimitBurst = 0 }, true},
		{"rate limiting off", func(c *Config) { c.Server.RateLimitRPS = 0; c.Server.RateLimitBurst = 0 }, false},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
