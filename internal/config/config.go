// Package config loads the gbmon configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// ConfigFileName is the default name of the configuration file.
	ConfigFileName = "gbmon.toml"

	// DefaultMetricsAddr is the default listen address for the metrics
	// endpoint.
	DefaultMetricsAddr = ":9716"
)

// Duration is a time.Duration that unmarshals from TOML strings such as
// "1s" or "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the gbmon.toml schema.
type Config struct {
	// ServerURL is the ws:// or wss:// endpoint of the Groove Basin
	// server.
	ServerURL string `toml:"server_url"`

	// MetricsAddr is the listen address for the Prometheus endpoint.
	MetricsAddr string `toml:"metrics_addr"`

	// RetryDelay overrides the fixed reconnect delay.
	RetryDelay Duration `toml:"retry_delay"`

	// KeepaliveInterval overrides the keepalive period.
	KeepaliveInterval Duration `toml:"keepalive_interval"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns a Config with stock values.
func Default() *Config {
	return &Config{
		MetricsAddr: DefaultMetricsAddr,
		LogLevel:    "info",
	}
}

// Load reads a TOML config from path. A missing file is not an error: the
// defaults are returned so gbmon runs on flags alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the loaded configuration for the fields gbmon cannot run
// without.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("config: server_url is required")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
