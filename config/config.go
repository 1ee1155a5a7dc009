// Package config loads the server configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends accepted in STORAGE_BACKEND.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Env       string `env:"ENV" envDefault:"development"`
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	RedisAddr      string `env:"REDIS_ADDR"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"data/cart.db"`
	Database       DatabaseConfig

	// BackendURL is the REST API serving /api/products and /api/orders.
	BackendURL string `env:"BACKEND_URL" envDefault:"http://localhost:3000"`
	// BaseURL is where this server is reachable; headless Chrome loads quotes from it.
	BaseURL           string        `env:"BASE_URL"`
	ChromePath        string        `env:"CHROME_PATH"`
	ImageCacheDir     string        `env:"IMAGE_CACHE_DIR" envDefault:"cache/images"`
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`

	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SessionCookie string `env:"SESSION_COOKIE" envDefault:"kv_cart_session"`
}

// DatabaseConfig describes the PostgreSQL connection.
// URL wins when set; otherwise a DSN is built from the individual fields.
type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	// PORT from some hosts comes as ":8080"
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if c.Port == "" {
		c.Port = "8080"
	}

	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	switch c.StorageBackend {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORAGE_BACKEND=redis")
		}
	case StoragePostgres:
		if _, err := c.Database.DSN(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	c.BackendURL = strings.TrimRight(strings.TrimSpace(c.BackendURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:" + c.Port
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return nil
}

// IsProduction reports whether ENV=production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Addr is the listen address on all interfaces.
func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode), nil
}
