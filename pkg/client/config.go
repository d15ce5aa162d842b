package client

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Config holds engine configuration.
type Config struct {
	// RetryDelay is the fixed wait between losing the channel and the
	// next connection attempt. Deliberately a constant interval with no
	// jitter or growth, and retries are unbounded.
	// Default: 1 second.
	RetryDelay time.Duration

	// KeepaliveInterval is the period of the repeating ping exchange
	// while connected. One extra ping fires immediately on connect.
	// Default: 10 seconds.
	KeepaliveInterval time.Duration

	// Scheduler runs the retry and keepalive timers.
	// Default: SystemScheduler().
	Scheduler Scheduler

	// Logger receives structured engine logs.
	// Default: slog.Default().
	Logger *slog.Logger

	// Metrics, when set, receives Prometheus instrumentation.
	Metrics *Metrics

	// Tracer, when set, opens one span per RPC call, ended when the
	// response resolves.
	Tracer trace.Tracer

	// OnFatal is invoked once when a protocol violation halts the
	// client. The violation is unrecoverable by design; this hook lets
	// the host choose termination policy.
	// Default: log at error level.
	OnFatal func(err error)
}

// DefaultConfig returns a Config with the protocol's stock timing values.
func DefaultConfig() *Config {
	return &Config{
		RetryDelay:        1 * time.Second,
		KeepaliveInterval: 10 * time.Second,
	}
}

// withDefaults returns a copy of c with zero fields filled in.
func (c *Config) withDefaults() Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.RetryDelay == 0 {
		out.RetryDelay = 1 * time.Second
	}
	if out.KeepaliveInterval == 0 {
		out.KeepaliveInterval = 10 * time.Second
	}
	if out.Scheduler == nil {
		out.Scheduler = SystemScheduler()
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return out
}
