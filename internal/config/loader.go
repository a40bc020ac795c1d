package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every environment key read by Load.
const Prefix = "EVENTDESK_"

// Config captures environment driven configuration values for the dashboard gateway.
type Config struct {
	HTTPPort       int           `env:"HTTP_PORT" envDefault:"8080"`
	BackendURL     string        `env:"BACKEND_URL"`
	SessionDSN     string        `env:"SESSION_DSN" envDefault:"file:eventdesk.db"`
	SessionSecret  string        `env:"SESSION_SECRET"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	CreateLeadDays int           `env:"CREATE_LEAD_DAYS" envDefault:"0"`
	UpdateLeadDays int           `env:"UPDATE_LEAD_DAYS" envDefault:"3"`
	CatalogTTL     time.Duration `env:"CATALOG_TTL" envDefault:"5m"`
	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
}

// LoadDotEnv reads path into the process environment when the file exists.
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load parses configuration values from the current process environment.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses configuration from environ, or from the process
// environment when environ is nil.
//
// Defaults apply to optional fields; required values and value ranges are
// validated afterwards so that every missing or invalid key is reported at once.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: Prefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("environment variables have invalid values: %w", err)
	}

	cfg.BackendURL = strings.TrimSpace(cfg.BackendURL)
	cfg.SessionDSN = strings.TrimSpace(cfg.SessionDSN)
	cfg.SessionSecret = strings.TrimSpace(cfg.SessionSecret)
	cfg.RedisAddr = strings.TrimSpace(cfg.RedisAddr)

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 4)

	if cfg.BackendURL == "" {
		missing = append(missing, Prefix+"BACKEND_URL")
	}
	if cfg.SessionSecret == "" {
		missing = append(missing, Prefix+"SESSION_SECRET")
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		invalid = append(invalid, Prefix+"HTTP_PORT")
	}
	if cfg.SessionDSN == "" {
		invalid = append(invalid, Prefix+"SESSION_DSN")
	}
	if cfg.RequestTimeout <= 0 {
		invalid = append(invalid, Prefix+"REQUEST_TIMEOUT")
	}
	if cfg.CreateLeadDays < 0 {
		invalid = append(invalid, Prefix+"CREATE_LEAD_DAYS")
	}
	if cfg.UpdateLeadDays < 0 {
		invalid = append(invalid, Prefix+"UPDATE_LEAD_DAYS")
	}
	if cfg.CatalogTTL <= 0 {
		invalid = append(invalid, Prefix+"CATALOG_TTL")
	}
	if cfg.RedisDB < 0 {
		invalid = append(invalid, Prefix+"REDIS_DB")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// RedisEnabled reports whether a shared Redis catalog cache is configured.
func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
