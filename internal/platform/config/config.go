package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8002"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Host and HostURL are what the served API document advertises.
	Host    string `env:"HOST" default:"localhost:8002"`
	HostURL string `env:"HOST_URL"`
	AppName string `env:"APP_NAME"`

	ModelPath    string `env:"MODEL_PATH"`
	ContractPath string `env:"CONTRACT_PATH"`
	StaticDir    string `env:"STATIC_DIR"`

	LiveReload     bool   `env:"LIVE_RELOAD" default:"false"`
	LiveReloadPath string `env:"LIVE_RELOAD_PATH" default:"/_changes"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return &cfg, nil
}

// Validate checks the loaded values. It runs separately from Load so that
// command-line flags can fill in fields before validation.
func (c *Config) Validate() error {
	if c.ModelPath == "" {
		return errors.New("MODEL_PATH is required")
	}

	if c.HostURL != "" {
		u, err := url.Parse(c.HostURL)
		if err != nil {
			return fmt.Errorf("HOST_URL must be a valid URL: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("HOST_URL must include scheme and host, got %q", c.HostURL)
		}
	}

	if c.LiveReload && !strings.HasPrefix(c.LiveReloadPath, "/") {
		return fmt.Errorf("LIVE_RELOAD_PATH must start with /, got %q", c.LiveReloadPath)
	}

	return nil
}

// AdvertisedHost returns the host and, if HOST_URL is set, the scheme the API
// document should report. An empty scheme means "leave the document's schemes alone".
func (c *Config) AdvertisedHost() (host, scheme string) {
	if c.HostURL != "" {
		if u, err := url.Parse(c.HostURL); err == nil && u.Host != "" {
			return u.Host, u.Scheme
		}
	}
	return c.Host, ""
}
