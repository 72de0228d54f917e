package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"stockdash/internal/portfolio"
	"stockdash/internal/provider"
)

type Server struct {
	Port              string   `json:"port" validate:"required,numeric"`
	RequestTimeoutSec int      `json:"request_timeout_sec" validate:"gte=0"`
	AllowedOrigins    []string `json:"allowed_origins"`
}

type Log struct {
	Level  string `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Pretty bool   `json:"pretty"`
	Dir    string `json:"dir"`
}

type Portfolio struct {
	Path    string            `json:"path" validate:"required"`
	Columns portfolio.Columns `json:"columns"`
}

type Cache struct {
	TTLSeconds   int `json:"ttl_sec" validate:"gte=0"`
	SweepSeconds int `json:"sweep_sec" validate:"gte=0"`
}

type Pipeline struct {
	MaxConcurrency int    `json:"max_concurrency" validate:"min=1"`
	RunTimeoutSec  int    `json:"run_timeout_sec" validate:"gte=0"`
	DefaultSource  string `json:"default_source" validate:"omitempty,oneof=yahoo google"`
}

type Yahoo struct {
	Enabled               bool   `json:"enabled"`
	HomeSuffix            string `json:"home_suffix"`
	SearchLimit           int    `json:"search_limit"`
	TimeoutSec            int    `json:"timeout_sec"`
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec"`
	Burst                 int    `json:"burst"`
}

type Google struct {
	Enabled               bool   `json:"enabled"`
	BaseURL               string `json:"base_url" validate:"omitempty,url"`
	ExchangePrefix        string `json:"exchange_prefix"`
	TimeoutSec            int    `json:"timeout_sec"`
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec"`
	Burst                 int    `json:"burst"`
}

type Config struct {
	Server    Server    `json:"server"`
	Log       Log       `json:"log"`
	Portfolio Portfolio `json:"portfolio"`
	Cache     Cache     `json:"cache"`
	Pipeline  Pipeline  `json:"pipeline"`
	Yahoo     Yahoo     `json:"yahoo"`
	Google    Google    `json:"google"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "5000", RequestTimeoutSec: 60, AllowedOrigins: []string{"*"}},
		Log:    Log{Level: "info"},
		Portfolio: Portfolio{
			Path:    "data/portfolio.json",
			Columns: portfolio.DefaultColumns(),
		},
		Cache: Cache{TTLSeconds: 60, SweepSeconds: 120},
		Pipeline: Pipeline{
			MaxConcurrency: 3,
			DefaultSource:  string(provider.Default),
		},
		Yahoo: Yahoo{
			Enabled:     true,
			HomeSuffix:  ".NS",
			SearchLimit: 5,
			TimeoutSec:  10,
			Burst:       1,
		},
		Google: Google{
			Enabled:        true,
			BaseURL:        "https://www.google.com/finance/quote/",
			ExchangePrefix: "NSE",
			TimeoutSec:     10,
			Burst:          1,
		},
	}
}

// Load reads JSON config from path. If path is empty, config.json in the
// working directory is used when present. A .env file is loaded into the
// environment first; environment variables override file values.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with. Field rules live
// in the validate tags; the checks below span several sections.
func (c Config) Validate() error {
	var errs []error
	if err := validator.New().Struct(c); err != nil {
		errs = append(errs, err)
	}
	if c.Cache.TTLSeconds > 0 && c.Cache.SweepSeconds <= 0 {
		errs = append(errs, errors.New("cache.sweep_sec must be > 0 when the cache is enabled"))
	}
	if !c.Yahoo.Enabled && !c.Google.Enabled {
		errs = append(errs, errors.New("at least one of yahoo or google must be enabled"))
	}
	return errors.Join(errs...)
}

func (c Config) RequestTimeout() time.Duration { return seconds(c.Server.RequestTimeoutSec) }
func (c Config) CacheTTL() time.Duration { return seconds(c.Cache.TTLSeconds) }
func (c Config) CacheSweep() time.Duration { return seconds(c.Cache.SweepSeconds) }
func (c Config) RunTimeout() time.Duration { return seconds(c.Pipeline.RunTimeoutSec) }

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	envInt("REQUEST_TIMEOUT_SEC", 1, &cfg.Server.RequestTimeoutSec)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitCSV(v)
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	envBool("LOG_PRETTY", &cfg.Log.Pretty)
	if v := os.Getenv("LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}

	if v := os.Getenv("PORTFOLIO_FILE"); v != "" {
		cfg.Portfolio.Path = v
	}

	envInt("CACHE_TTL_SEC", 0, &cfg.Cache.TTLSeconds)
	envInt("CACHE_SWEEP_SEC", 1, &cfg.Cache.SweepSeconds)

	envInt("MAX_CONCURRENCY", 1, &cfg.Pipeline.MaxConcurrency)
	envInt("RUN_TIMEOUT_SEC", 0, &cfg.Pipeline.RunTimeoutSec)
	if v := os.Getenv("DEFAULT_SOURCE"); v != "" {
		cfg.Pipeline.DefaultSource = strings.ToLower(v)
	}

	envBool("YAHOO_ENABLED", &cfg.Yahoo.Enabled)
	if v, ok := os.LookupEnv("YAHOO_HOME_SUFFIX"); ok {
		cfg.Yahoo.HomeSuffix = v
	}
	envInt("YAHOO_SEARCH_LIMIT", 1, &cfg.Yahoo.SearchLimit)
	envInt("YAHOO_TIMEOUT_SEC", 1, &cfg.Yahoo.TimeoutSec)
	envInt("YAHOO_MAX_RPM", 0, &cfg.Yahoo.MaxRequestsPerMinute)
	envInt("YAHOO_MIN_INTERVAL_SEC", 0, &cfg.Yahoo.MinRequestIntervalSec)
	envInt("YAHOO_BURST", 1, &cfg.Yahoo.Burst)

	envBool("GOOGLE_ENABLED", &cfg.Google.Enabled)
	if v := os.Getenv("GOOGLE_BASE_URL"); v != "" {
		cfg.Google.BaseURL = v
	}
	if v, ok := os.LookupEnv("GOOGLE_EXCHANGE_PREFIX"); ok {
		cfg.Google.ExchangePrefix = v
	}
	envInt("GOOGLE_TIMEOUT_SEC", 1, &cfg.Google.TimeoutSec)
	envInt("GOOGLE_MAX_RPM", 0, &cfg.Google.MaxRequestsPerMinute)
	envInt("GOOGLE_MIN_INTERVAL_SEC", 0, &cfg.Google.MinRequestIntervalSec)
	envInt("GOOGLE_BURST", 1, &cfg.Google.Burst)
}

// envInt sets *dst from key when the value parses and is at least min.
func envInt(key string, min int, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var x int
	if _, err := fmt.Sscanf(v, "%d", &x); err == nil && x >= min {
		*dst = x
	}
}

func envBool(key string, dst *bool) {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		*dst = true
	case "0", "false", "no", "n":
		*dst = false
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
