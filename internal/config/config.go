package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

var ErrNoConfig = errors.New("config not loaded")

type Config struct {
	LookupURL      string        `env:"LOOKUP_URL" default:"https://cmt-technologies.net/casting/get_wifi.php"`
	LookupTimeout  time.Duration `env:"LOOKUP_TIMEOUT" default:"0s"` // 0 leaves the request unbounded
	ListenAddr     string        `env:"LISTEN_ADDR" default:"0.0.0.0:8080"`
	LogLevel       string        `env:"LOG_LEVEL" default:"info"`
	LogFormat      string        `env:"LOG_FORMAT" default:"text"`
	SplashDuration time.Duration `env:"SPLASH_DURATION" default:"3s"`
	SysfsRoot      string        `env:"SYSFS_ROOT" default:"/sys/class/net"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.LookupURL)
	if err != nil {
		return fmt.Errorf("LOOKUP_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("LOOKUP_URL must be http or https, got %q", cfg.LookupURL)
	}
	if u.Host == "" {
		return errors.New("LOOKUP_URL must include a host")
	}
	if cfg.LookupTimeout < 0 {
		return errors.New("LOOKUP_TIMEOUT must not be negative")
	}
	if cfg.SplashDuration < 0 {
		return errors.New("SPLASH_DURATION must not be negative")
	}
	if cfg.ListenAddr == "" {
		return errors.New("LISTEN_ADDR is required")
	}
	return nil
}

type ctxKey struct{}

// WithContext attaches cfg to ctx so subcommands can read what the root
// command loaded.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config attached by WithContext, or ErrNoConfig.
func FromContext(ctx context.Context) (*Config, error) {
	if ctx == nil {
		return nil, ErrNoConfig
	}
	cfg, ok := ctx.Value(ctxKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, ErrNoConfig
	}
	return cfg, nil
}
