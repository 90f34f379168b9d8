package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/optimeet/internal/instrumentation"
)

// MCPEndpoint is the path of the streamable HTTP MCP endpoint.
const MCPEndpoint = "/mcp"

// HTTPServer serves an MCP server over streamable HTTP next to the health
// endpoints.
type HTTPServer struct {
	handler    http.Handler
	health     *HealthChecker
	httpServer *http.Server
	listener   net.Listener
}

// HTTPServerConfig configures an HTTPServer.
type HTTPServerConfig struct {
	ServerContext *ServerContext

	// DisableStreaming turns off SSE responses on the MCP endpoint.
	DisableStreaming bool

	Metrics *instrumentation.Metrics
}

// NewHTTPServer creates an HTTP server for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, config HTTPServerConfig) *HTTPServer {
	opts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath(MCPEndpoint),
	}
	if config.DisableStreaming {
		opts = append(opts, mcpserver.WithDisableStreaming(true))
	}
	streamable := mcpserver.NewStreamableHTTPServer(mcpServer, opts...)

	health := NewHealthChecker(config.ServerContext)
	mux := http.NewServeMux()
	mux.Handle(MCPEndpoint, streamable)
	health.RegisterHealthEndpoints(mux)

	return &HTTPServer{
		handler: InstrumentHandler(config.Metrics, mux),
		health:  health,
	}
}

// Handler returns the root handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Health returns the health checker so callers can toggle readiness.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Start listens on addr and serves until Shutdown is called.
func (s *HTTPServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.httpServer.Serve(ln)
}

// Shutdown marks the server not ready and drains connections.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// InstrumentHandler records the method, path and status of every request.
// A nil metrics returns next unchanged.
func InstrumentHandler(metrics *instrumentation.Metrics, next http.Handler) http.Handler {
	if metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
