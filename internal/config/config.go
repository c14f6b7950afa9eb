// Package config loads the nextbar YAML configuration and applies
// environment variable overrides and defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for nextbar.
type Config struct {
	Server  Server  `yaml:"server"`
	Source  Source  `yaml:"source"`
	Cache   Cache   `yaml:"cache"`
	Storage Storage `yaml:"storage"`
	Warm    Warm    `yaml:"warm"`
	Logging Logging `yaml:"logging"`
}

// Server holds the HTTP listener configuration.
type Server struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Source configures the market-data fetch path.
type Source struct {
	LookbackDays    int    `yaml:"lookback_days"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	Retries         int    `yaml:"retries"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
	YahooBaseURL    string `yaml:"yahoo_base_url"`
	Alpaca          Alpaca `yaml:"alpaca"`
}

// Alpaca holds optional credentials for the Alpaca market-data API. When
// unset, all symbols are fetched via Yahoo.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
}

// Cache configures the response cache.
type Cache struct {
	TTLSec int `yaml:"ttl_sec"`
}

// Storage holds persistence paths.
type Storage struct {
	SQLitePath string `yaml:"sqlite_path"`
	DataDir    string `yaml:"data_dir"`
}

// Warm configures the cache-warming schedule. An empty cron spec disables
// warming.
type Warm struct {
	Cron    string   `yaml:"cron"`
	Symbols []string `yaml:"symbols"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path (a missing file is not an error), applies
// environment variable overrides, then fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Source.YahooBaseURL = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Source.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Source.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Source.Alpaca.DataURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Canonical Alpaca env vars used by the SDK take priority.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Source.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Source.Alpaca.APISecret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Source.LookbackDays == 0 {
		cfg.Source.LookbackDays = 14
	}
	if cfg.Source.TimeoutSec == 0 {
		cfg.Source.TimeoutSec = 10
	}
	if cfg.Source.Retries == 0 {
		cfg.Source.Retries = 3
	}
	if cfg.Source.RateLimitPerMin == 0 {
		cfg.Source.RateLimitPerMin = 60
	}
	if cfg.Cache.TTLSec == 0 {
		cfg.Cache.TTLSec = 60
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Source.LookbackDays < 2 {
		return fmt.Errorf("source.lookback_days must be at least 2 to cover two sessions")
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
