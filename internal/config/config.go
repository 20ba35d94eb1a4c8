package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the analyzer configuration. Values come from the
// defaults, then an optional TOML file, then environment variables.
type Config struct {
	// Storage configuration
	Database DatabaseConfig `toml:"database"`

	// Analysis engine configuration
	Analysis AnalysisConfig `toml:"analysis"`

	// HTTP server configuration
	Server ServerConfig `toml:"server"`

	// Logging configuration
	Log LogConfig `toml:"log"`
}

// DatabaseConfig contains the card store settings.
type DatabaseConfig struct {
	Path    string `toml:"path"`     // SQLite file path
	DataDir string `toml:"data_dir"` // pokemon-tcg-data checkout used by the importer
}

// AnalysisConfig contains feature extraction settings.
type AnalysisConfig struct {
	Workers          int  `toml:"workers"`            // Fan-out width (0 = one per CPU)
	KeywordCacheSize int  `toml:"keyword_cache_size"` // Memoized keyword texts (0 = disabled)
	DisableAugmenter bool `toml:"disable_augmenter"`  // Category keywords only
}

// ServerConfig contains HTTP settings.
type ServerConfig struct {
	Port           string   `toml:"port"`
	RateLimitRPS   float64  `toml:"rate_limit_rps"` // 0 disables rate limiting
	RateLimitBurst int      `toml:"rate_limit_burst"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug" or "info"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:    "./tcg_analyzer.db",
			DataDir: "./data",
		},
		Analysis: AnalysisConfig{
			Workers:          0,
			KeywordCacheSize: 4096,
			DisableAugmenter: false,
		},
		Server: ServerConfig{
			Port:           "8080",
			RateLimitRPS:   20,
			RateLimitBurst: 40,
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. path may be empty, and a missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := getenv("POKEMON_DATA_DIR"); v != "" {
		c.Database.DataDir = v
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	if v := getenv("DISABLE_AUGMENTER"); v != "" {
		disabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DISABLE_AUGMENTER %q: %w", v, err)
		}
		c.Analysis.DisableAugmenter = disabled
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"ANALYZER_WORKERS", &c.Analysis.Workers},
		{"KEYWORD_CACHE_SIZE", &c.Analysis.KeywordCacheSize},
		{"RATE_LIMIT_BURST", &c.Server.RateLimitBurst},
	}
	for _, kv := range ints {
		v := getenv(kv.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", kv.key, v, err)
		}
		*kv.dst = n
	}

	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
		c.Server.RateLimitRPS = rps
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("workers cannot be negative: %d", c.Analysis.Workers)
	}
	if c.Analysis.KeywordCacheSize < 0 {
		return fmt.Errorf("keyword cache size cannot be negative: %d", c.Analysis.KeywordCacheSize)
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit cannot be negative: %v", c.Server.RateLimitRPS)
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be positive when rate limiting is enabled: %d", c.Server.RateLimitBurst)
	}
	switch c.Log.Level {
	case "debug", "info":
	default:
		return fmt.Errorf("unsupported log level %q", c.Log.Level)
	}
	return nil
}

// Debug reports whether debug logging is enabled
func (c *Config) Debug() bool {
	return c.Log.Level == "debug"
}
