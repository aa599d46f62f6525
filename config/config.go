// Package config loads the stk configuration from a TOML file, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "stk.toml"

// Environment variables overriding the file.
const (
	EnvAPIKey     = "TWELVE_DATA_API_KEY"
	EnvGatewayURL = "STK_GATEWAY_URL"
	EnvStore      = "STK_STORE"
	EnvLogLevel   = "STK_LOG_LEVEL"
)

// Backends lists the supported store backends.
var Backends = []string{"memory", "file", "sqlite", "postgres", "redis"}

// Duration is a time.Duration read from a string like "5m".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

type Config struct {
	Currency string `toml:"currency"`
	LogLevel string `toml:"log_level"`

	Quote struct {
		GatewayURL        string   `toml:"gateway_url"`
		Timeout           Duration `toml:"timeout"`
		RequestsPerMinute int      `toml:"requests_per_minute"`
	} `toml:"quote"`

	Store struct {
		Backend     string `toml:"backend"`
		Path        string `toml:"path"`
		DSN         string `toml:"dsn"`
		RedisAddr   string `toml:"redis_addr"`
		RedisPrefix string `toml:"redis_prefix"`
	} `toml:"store"`

	Gateway struct {
		Addr              string  `toml:"addr"`
		UpstreamURL       string  `toml:"upstream_url"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		APIKey            string  `toml:"-"` // only from the environment
	} `toml:"gateway"`

	Watch struct {
		Every Duration `toml:"every"`
	} `toml:"watch"`
}

// Load reads the configuration at path. A missing file is not an error:
// every value has a default. Variables from a .env file in the current
// directory are loaded first, without overriding the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read .env: %w", err)
	}

	var cfg Config
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot read config %q: %w", path, err)
		}
	}
	return complete(&cfg, os.Getenv)
}

// Parse reads the configuration from a TOML document, without .env nor file.
func Parse(data string, getenv func(string) string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, err
	}
	return complete(&cfg, getenv)
}

// complete applies the environment and the defaults to cfg, then validates
// it.
func complete(cfg *Config, getenv func(string) string) (*Config, error) {
	applyEnv(cfg, getenv)
	normalize(cfg)
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvAPIKey); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := getenv(EnvGatewayURL); v != "" {
		cfg.Quote.GatewayURL = v
	}
	if v := getenv(EnvStore); v != "" {
		cfg.Store.Backend = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// normalize canonicalizes the values defaults depend on.
func normalize(cfg *Config) {
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
}

func applyDefaults(cfg *Config) {
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Quote.GatewayURL == "" {
		cfg.Quote.GatewayURL = "http://localhost:8888/quote-data"
	}
	if cfg.Quote.Timeout.Duration <= 0 {
		cfg.Quote.Timeout.Duration = 10 * time.Second
	}
	if cfg.Quote.RequestsPerMinute == 0 {
		cfg.Quote.RequestsPerMinute = 8
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "file"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = ".stk"
		if cfg.Store.Backend == "sqlite" {
			cfg.Store.Path = ".stk/stk.db"
		}
	}
	if cfg.Store.RedisAddr == "" {
		cfg.Store.RedisAddr = "localhost:6379"
	}
	if cfg.Store.RedisPrefix == "" {
		cfg.Store.RedisPrefix = "stk"
	}
	if cfg.Gateway.Addr == "" {
		cfg.Gateway.Addr = ":8888"
	}
	if cfg.Gateway.UpstreamURL == "" {
		cfg.Gateway.UpstreamURL = "https://api.twelvedata.com"
	}
	if cfg.Gateway.RequestsPerSecond == 0 {
		cfg.Gateway.RequestsPerSecond = 10
	}
	if cfg.Watch.Every.Duration <= 0 {
		cfg.Watch.Every.Duration = 5 * time.Minute
	}
}

func validate(cfg *Config) error {
	if len(cfg.Currency) != 3 {
		return fmt.Errorf("currency %q is not an ISO 4217 code", cfg.Currency)
	}
	if !slices.Contains(Backends, cfg.Store.Backend) {
		return fmt.Errorf("store.backend %q unknown, want one of %s", cfg.Store.Backend, strings.Join(Backends, ", "))
	}
	if cfg.Store.Backend == "postgres" && strings.TrimSpace(cfg.Store.DSN) == "" {
		return errors.New("store.dsn empty but backend is postgres")
	}
	if cfg.Watch.Every.Duration < time.Minute {
		return fmt.Errorf("watch.every %v is too short, the quote API allows few requests per minute", cfg.Watch.Every)
	}
	return nil
}
