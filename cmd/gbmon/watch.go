package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/mattnite/groovebasin/internal/config"
	"github.com/mattnite/groovebasin/pkg/client"
	"github.com/mattnite/groovebasin/pkg/transport"
)

func watchCmd() *cobra.Command {
	var (
		cfgPath     string
		serverURL   string
		metricsAddr string
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Connect to a server and monitor the link",
		Long: `Connect to a Groove Basin server and stay connected, logging
state transitions and lag samples, and serving Prometheus metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.ServerURL = serverURL
			}
			if metricsAddr != "" {
				cfg.MetricsAddr = metricsAddr
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runWatch(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", config.ConfigFileName, "Path to config file")
	cmd.Flags().StringVar(&serverURL, "server", "", "Server ws:// URL (overrides config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics listen address (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}

func runWatch(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))

	registry := prometheus.NewRegistry()
	metrics := client.NewMetrics(client.WithRegistry(registry))

	dialer := transport.NewWebsocket(transport.WebsocketConfig{
		URL:    cfg.ServerURL,
		Logger: logger,
	})

	pres := &logPresenter{logger: logger}

	c := client.New(dialer, pres, &client.Config{
		RetryDelay:        cfg.RetryDelay.Duration,
		KeepaliveInterval: cfg.KeepaliveInterval.Duration,
		Logger:            logger,
		Metrics:           metrics,
		Tracer:            otel.Tracer("gbmon"),
		OnFatal: func(err error) {
			logger.Error("protocol violation, shutting down", "error", err)
			stop()
		},
	})

	if err := c.Open(ctx); err != nil {
		return err
	}
	logger.Info("watching", "server", cfg.ServerURL, "metrics", cfg.MetricsAddr)

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprintf(w, "%s lag=%s pending=%d\n", c.State(), pres.lag(), c.PendingCalls())
	})

	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("metrics server failed", "error", err)
	}

	logger.Info("shutting down")
	if err := c.Close(); err != nil {
		logger.Warn("channel close failed", "error", err)
	}

	shutdownCtx, release := context.WithTimeout(context.Background(), 5*time.Second)
	defer release()
	return srv.Shutdown(shutdownCtx)
}

// logPresenter satisfies the engine's presentation collaborator: state
// changes and lag samples become log lines, and the last lag is kept for
// the health endpoint. gbmon has no application state, so Poll is only a
// heartbeat in the logs.
type logPresenter struct {
	logger *slog.Logger

	mu      sync.Mutex
	lastLag time.Duration
}

func (p *logPresenter) SetConnectionState(s client.ConnState) {
	p.logger.Info("connection state", "state", s)
}

func (p *logPresenter) SetLag(lag time.Duration) {
	p.mu.Lock()
	p.lastLag = lag
	p.mu.Unlock()
	p.logger.Info("lag sample", "lag", lag)
}

func (p *logPresenter) Poll() error {
	p.logger.Debug("poll")
	return nil
}

func (p *logPresenter) lag() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastLag
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
