package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MetricsAddr != DefaultMetricsAddr {
		t.Errorf("MetricsAddr = %q, want %q", cfg.MetricsAddr, DefaultMetricsAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gbmon.toml")
	body := `
server_url = "ws://music.local:16242/ws"
metrics_addr = ":9900"
retry_delay = "250ms"
keepalive_interval = "3s"
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerURL != "ws://music.local:16242/ws" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.MetricsAddr != ":9900" {
		t.Errorf("MetricsAddr = %q, want :9900", cfg.MetricsAddr)
	}
	if cfg.RetryDelay.Duration != 250*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 250ms", cfg.RetryDelay.Duration)
	}
	if cfg.KeepaliveInterval.Duration != 3*time.Second {
		t.Errorf("KeepaliveInterval = %v, want 3s", cfg.KeepaliveInterval.Duration)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"missing_server_url", func(c *Config) {}, true},
		{"valid", func(c *Config) { c.ServerURL = "ws://h/ws" }, false},
		{"bad_log_level", func(c *Config) { c.ServerURL = "ws://h/ws"; c.LogLevel = "loud" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gbmon.toml")
	if err := os.WriteFile(path, []byte("server_url = [broken"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() = nil error for malformed TOML")
	}
}
