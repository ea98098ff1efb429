package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Offer cache backends selectable with OFFER_CACHE_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Upstream catalog/sales API
	UpstreamURL          string        `env:"UPSTREAM_API_URL" envDefault:"http://localhost:3001/api"`
	UpstreamToken        string        `env:"UPSTREAM_API_TOKEN"`
	UpstreamTimeout      time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	ProductUpdateTimeout time.Duration `env:"PRODUCT_UPDATE_TIMEOUT" envDefault:"15s"`

	// FixtureMode substitutes canned data when the upstream fails.
	// Never enable it outside local development.
	FixtureMode bool `env:"FIXTURE_MODE" envDefault:"false"`

	OfferCacheBackend string `env:"OFFER_CACHE_BACKEND" envDefault:"memory"`
	RedisAddr         string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	SQLitePath        string `env:"SQLITE_PATH" envDefault:"data/sales-admin.db"`

	// CORS
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.CORSAllowOrigins = cleanOrigins(cfg.CORSAllowOrigins)
	cfg.OfferCacheBackend = strings.ToLower(strings.TrimSpace(cfg.OfferCacheBackend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.UpstreamURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid UPSTREAM_API_URL %q", c.UpstreamURL)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if c.ProductUpdateTimeout <= 0 {
		return fmt.Errorf("PRODUCT_UPDATE_TIMEOUT must be positive")
	}
	switch c.OfferCacheBackend {
	case BackendMemory, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("unknown OFFER_CACHE_BACKEND %q", c.OfferCacheBackend)
	}
	return nil
}

func cleanOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
