// Package config loads the gateway configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ContentStoreDirectus = "directus"
	ContentStoreMemory   = "memory"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"3001"`
	GRPCPort string `env:"GRPC_PORT"`

	ContentStore     string        `env:"CONTENT_STORE" envDefault:"directus"`
	DirectusURL      string        `env:"DIRECTUS_URL" envDefault:"http://localhost:8055"`
	DirectusToken    string        `env:"DIRECTUS_TOKEN"`
	DirectusEmail    string        `env:"DIRECTUS_EMAIL"`
	DirectusPassword string        `env:"DIRECTUS_PASSWORD"`
	UpstreamTimeout  time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	JWTSecret    string   `env:"JWT_SECRET"`
	JWTExpiresIn Lifetime `env:"JWT_EXPIRES_IN" envDefault:"24h"`

	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`

	RedisAddr         string        `env:"REDIS_ADDR"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	CatalogCacheTTL   time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"30s"`

	AuditDBPath string `env:"AUDIT_DB_PATH"`

	OtelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"storefront-gateway"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom reads configuration from the given variables only.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET environment variable is required")
	}
	if c.JWTExpiresIn.Duration() <= 0 {
		return errors.New("config: JWT_EXPIRES_IN must be positive")
	}
	switch c.ContentStore {
	case ContentStoreMemory:
	case ContentStoreDirectus:
		if c.DirectusURL == "" {
			return errors.New("config: DIRECTUS_URL environment variable is required")
		}
		if c.DirectusToken == "" && (c.DirectusEmail == "" || c.DirectusPassword == "") {
			return errors.New("config: DIRECTUS_TOKEN or DIRECTUS_EMAIL and DIRECTUS_PASSWORD are required")
		}
	default:
		return fmt.Errorf("config: unknown CONTENT_STORE %q", c.ContentStore)
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("config: rate limit requests and window must be positive")
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// Lifetime is a token lifetime. Besides Go durations ("24h", "90m") it
// accepts a day suffix ("7d") and bare seconds ("3600").
type Lifetime time.Duration

func (l *Lifetime) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return fmt.Errorf("invalid lifetime %q", s)
		}
		*l = Lifetime(time.Duration(n) * 24 * time.Hour)
		return nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		*l = Lifetime(time.Duration(secs) * time.Second)
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid lifetime %q", s)
	}
	*l = Lifetime(d)
	return nil
}

func (l Lifetime) Duration() time.Duration { return time.Duration(l) }
