package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teemow/optimeet/internal/instrumentation"
)

const (
	// DefaultMetricsAddr keeps metrics off the MCP port.
	DefaultMetricsAddr = ":9090"

	// DefaultShutdownTimeout bounds graceful shutdown of the HTTP servers.
	DefaultShutdownTimeout = 30 * time.Second

	metricsReadTimeout  = 10 * time.Second
	metricsWriteTimeout = 10 * time.Second
	metricsIdleTimeout  = 60 * time.Second
)

// MetricsServerConfig configures NewMetricsServer.
type MetricsServerConfig struct {
	Addr string

	// InstrumentationProvider must be enabled and export through Prometheus.
	InstrumentationProvider *instrumentation.Provider

	Logger *slog.Logger
}

// MetricsServer serves /metrics from the global Prometheus registry the
// OpenTelemetry exporter writes to.
type MetricsServer struct {
	srv      *http.Server
	addr     string
	listener net.Listener
	logger   *slog.Logger
}

// NewMetricsServer validates the provider and prepares the server. Nothing
// is bound until Listen.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	provider := config.InstrumentationProvider
	switch {
	case provider == nil:
		return nil, errors.New("instrumentation provider is required for metrics server")
	case !provider.Enabled():
		return nil, errors.New("instrumentation provider is not enabled")
	case !provider.UsesPrometheus():
		return nil, errors.New("instrumentation provider does not export Prometheus metrics")
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultMetricsAddr
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	return &MetricsServer{
		addr:   addr,
		logger: logger.With("component", "metrics"),
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: metricsReadTimeout,
			WriteTimeout:      metricsWriteTimeout,
			IdleTimeout:       metricsIdleTimeout,
		},
	}, nil
}

// Listen binds the address. After it returns, Addr reports the bound
// address.
func (s *MetricsServer) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.addr = ln.Addr().String()
	return nil
}

// Serve blocks until Shutdown. It returns nil on a graceful stop.
func (s *MetricsServer) Serve() error {
	if s.listener == nil {
		return errors.New("metrics server is not listening")
	}
	s.logger.Info("serving metrics", "addr", s.addr)
	if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops a listening server. It is a no-op otherwise.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}
	s.logger.Info("shutting down metrics server")
	return s.srv.Shutdown(ctx)
}

// Addr returns the configured address, or the bound one after Listen.
func (s *MetricsServer) Addr() string {
	return s.addr
}
