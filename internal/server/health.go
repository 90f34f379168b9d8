package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// Health status values.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// HealthChecker serves /healthz, /readyz and /healthz/detailed for the HTTP
// transport.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready. sc may be
// nil, in which case only the ready flag is checked.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{serverContext: sc, startTime: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the body of the liveness and readiness endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse adds uptime and a summary of the loaded state.
type DetailedHealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Meetings int    `json:"meetings"`
	Contacts int    `json:"contacts"`
	Google   bool   `json:"google_calendar"`
	ReadOnly bool   `json:"read_only"`
}

// readinessChecks returns the result of every readiness check by name. A
// value other than "ok" fails the check.
func (h *HealthChecker) readinessChecks() map[string]string {
	checks := map[string]string{"ready": healthStatusOK}
	if !h.ready.Load() {
		checks["ready"] = healthStatusNotReady
	}

	sc := h.serverContext
	if sc == nil {
		return checks
	}

	checks["shutdown"] = healthStatusOK
	if sc.IsShutdown() {
		checks["shutdown"] = healthStatusShuttingDown
	}
	if path := sc.CalendarFile(); path != "" && !sc.ReadOnly() {
		checks["calendar_file"] = checkWritableDir(filepath.Dir(path))
	}
	return checks
}

// checkWritableDir reports whether the calendar file can be created in dir.
func checkWritableDir(dir string) string {
	info, err := os.Stat(dir)
	switch {
	case err != nil:
		return fmt.Sprintf("unavailable: %v", err)
	case !info.IsDir():
		return "unavailable: not a directory"
	}
	return healthStatusOK
}

// LivenessHandler returns the /healthz handler. It only reports that the
// process is serving.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler returns the /readyz handler.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks := h.readinessChecks()
		status := http.StatusOK
		response := HealthResponse{Status: healthStatusOK, Checks: checks}
		for _, result := range checks {
			if result != healthStatusOK {
				status = http.StatusServiceUnavailable
				response.Status = healthStatusNotReady
				break
			}
		}
		writeHealth(w, status, response)
	})
}

// DetailedHealthHandler returns the /healthz/detailed handler.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := DetailedHealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		}
		status := http.StatusOK

		if sc := h.serverContext; sc != nil {
			response.Meetings = sc.Calendar().Len()
			response.Contacts = len(sc.Directory().Names())
			response.Google = sc.Google() != nil
			response.ReadOnly = sc.ReadOnly()
			if sc.IsShutdown() {
				response.Status = healthStatusShuttingDown
				status = http.StatusServiceUnavailable
			}
		}
		if !h.ready.Load() {
			response.Status = healthStatusNotReady
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, status, response)
	})
}

// RegisterHealthEndpoints registers the health endpoints on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

func writeHealth(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
