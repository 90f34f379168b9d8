package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/optimeet/internal/schedule"
	"github.com/teemow/optimeet/internal/timeofday"
)

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)
	h.SetReady(false)

	rec := serve(t, h.LivenessHandler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealthChecker_Readiness(t *testing.T) {
	sc := newTestServerContext(t, Config{})
	h := NewHealthChecker(sc)

	rec := serve(t, h.ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	h.SetReady(false)
	rec = serve(t, h.ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusNotReady, resp.Checks["ready"])

	h.SetReady(true)
	require.NoError(t, sc.Shutdown())
	rec = serve(t, h.ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusShuttingDown, resp.Checks["shutdown"])
}

func TestHealthChecker_Detailed(t *testing.T) {
	cal := schedule.NewCalendar()
	_, err := cal.Book(schedule.Meeting{Day: timeofday.Monday, Start: 540, End: 600, Contact: "Huy"})
	require.NoError(t, err)
	sc := newTestServerContext(t, Config{Calendar: cal, ReadOnly: true})

	mux := http.NewServeMux()
	NewHealthChecker(sc).RegisterHealthEndpoints(mux)

	rec := serve(t, mux, "/healthz/detailed")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusOK, resp.Status)
	assert.Equal(t, 1, resp.Meetings)
	assert.True(t, resp.ReadOnly)
	assert.False(t, resp.Google)
}

func TestHealthChecker_CalendarFileCheck(t *testing.T) {
	dir := t.TempDir()

	sc := newTestServerContext(t, Config{CalendarFile: filepath.Join(dir, "calendar.txt")})
	rec := serve(t, NewHealthChecker(sc).ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusOK, resp.Checks["calendar_file"])

	sc = newTestServerContext(t, Config{CalendarFile: filepath.Join(dir, "missing", "calendar.txt")})
	rec = serve(t, NewHealthChecker(sc).ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Checks["calendar_file"], "unavailable")

	sc = newTestServerContext(t, Config{CalendarFile: filepath.Join(dir, "missing", "calendar.txt"), ReadOnly: true})
	rec = serve(t, NewHealthChecker(sc).ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}
