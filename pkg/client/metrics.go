package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "groovebasin").
	Namespace string

	// Subsystem is the metrics subsystem (default: "client").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrumentation.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "groovebasin",
		Subsystem: "client",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus metrics the engine records. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	reconnects     prometheus.Counter
	framesSent     prometheus.Counter
	framesReceived prometheus.Counter
	pushes         prometheus.Counter
	protocolErrors prometheus.Counter
	pendingCalls   prometheus.Gauge
	connected      prometheus.Gauge
	lagSeconds     prometheus.Gauge
}

// NewMetrics registers and returns the engine's metrics.
//
// Metrics exposed:
//   - groovebasin_client_reconnects_total: reconnection attempts after backoff
//   - groovebasin_client_frames_sent_total: request frames transmitted
//   - groovebasin_client_frames_received_total: server frames decoded
//   - groovebasin_client_pushes_total: push frames dispatched
//   - groovebasin_client_protocol_errors_total: fatal protocol violations
//   - groovebasin_client_pending_calls: in-flight calls (includes leaked ones)
//   - groovebasin_client_connected: 1 while the channel is established
//   - groovebasin_client_lag_seconds: last measured client/server clock offset
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		reconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconnects_total",
			Help:        "Total number of reconnection attempts after backoff",
			ConstLabels: config.ConstLabels,
		}),
		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_sent_total",
			Help:        "Total number of request frames transmitted",
			ConstLabels: config.ConstLabels,
		}),
		framesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_received_total",
			Help:        "Total number of server frames decoded",
			ConstLabels: config.ConstLabels,
		}),
		pushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pushes_total",
			Help:        "Total number of push frames dispatched",
			ConstLabels: config.ConstLabels,
		}),
		protocolErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "protocol_errors_total",
			Help:        "Total number of fatal protocol violations",
			ConstLabels: config.ConstLabels,
		}),
		pendingCalls: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pending_calls",
			Help:        "Number of in-flight calls awaiting responses",
			ConstLabels: config.ConstLabels,
		}),
		connected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "connected",
			Help:        "1 while the channel is established, 0 otherwise",
			ConstLabels: config.ConstLabels,
		}),
		lagSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lag_seconds",
			Help:        "Last measured client/server clock offset in seconds",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordReconnect() {
	if m != nil {
		m.reconnects.Inc()
	}
}

func (m *Metrics) recordFrameSent() {
	if m != nil {
		m.framesSent.Inc()
	}
}

func (m *Metrics) recordFrameReceived() {
	if m != nil {
		m.framesReceived.Inc()
	}
}

func (m *Metrics) recordPush() {
	if m != nil {
		m.pushes.Inc()
	}
}

func (m *Metrics) recordProtocolError() {
	if m != nil {
		m.protocolErrors.Inc()
	}
}

func (m *Metrics) setPendingCalls(n int) {
	if m != nil {
		m.pendingCalls.Set(float64(n))
	}
}

func (m *Metrics) setConnected(up bool) {
	if m == nil {
		return
	}
	if up {
		m.connected.Set(1)
	} else {
		m.connected.Set(0)
	}
}

func (m *Metrics) setLag(lag time.Duration) {
	if m != nil {
		m.lagSeconds.Set(lag.Seconds())
	}
}
