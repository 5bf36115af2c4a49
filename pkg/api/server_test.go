package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/clockstore/pkg/clock"
	"github.com/ssargent/clockstore/pkg/storage"
	"github.com/ssargent/clockstore/pkg/store"
)

const testAPIKey = "test-key"

type testServer struct {
	mem     *storage.Memory
	store   *store.Store
	metrics *Metrics
	handler http.Handler
}

// setupTestServer creates a server over an in-memory volume with its own
// registry
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	reg := prometheus.NewRegistry()
	mem := storage.NewMemory()
	st := store.New(mem, store.Config{Metrics: store.NewMetrics(reg)})
	metrics := NewMetrics(reg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := NewServer(st, ServerConfig{Port: 0, Bind: "127.0.0.1", APIKey: testAPIKey}, metrics, reg, logger)
	return &testServer{mem: mem, store: st, metrics: metrics, handler: server.Routes()}
}

func (ts *testServer) get(t *testing.T, path string, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authenticated {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, data any) {
	t.Helper()
	resp := struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NoError(t, json.Unmarshal(resp.Data, data))
}

func TestHandleHealth(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.get(t, "/api/v1/health", true)
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	decodeData(t, w, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.Mounted)
	assert.Equal(t, 1, ts.mem.Mounts())
	assert.Equal(t, 1, ts.mem.Unmounts())

	ts.mem.FailMount = true
	w = ts.get(t, "/api/v1/health", true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, ts.store.Mounted())

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.healthChecksTotal.WithLabelValues(statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.healthChecksTotal.WithLabelValues(statusError)))
}

func TestHandleStats(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.get(t, "/api/v1/stats", true)
	assert.Equal(t, http.StatusNotFound, w.Code, "no stats file before the first save")

	require.True(t, ts.store.SaveStatistics(&clock.Statistics{UptimeMins: 1501, TubeOnTimeMins: 90}))

	w = ts.get(t, "/api/v1/stats", true)
	require.Equal(t, http.StatusOK, w.Code)

	var stats StatsResponse
	decodeData(t, w, &stats)
	assert.Equal(t, uint64(1501), stats.UptimeMins)
	assert.Equal(t, uint64(90), stats.TubeOnTimeMins)
	assert.Equal(t, "1 d 1 h 1 m 0 s", stats.Uptime)
	assert.Equal(t, "1 h 30 m 0 s", stats.TubeOnTime)

	ts.mem.Put(store.DefaultStatsPath, []byte("{broken"))
	w = ts.get(t, "/api/v1/stats", true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleConfig(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.get(t, "/api/v1/config", true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	cfg := clock.DefaultConfiguration()
	cfg.DayBlanking = uint8(clock.BlankWeekend)
	cfg.WebPassword = "hunter2"
	require.True(t, ts.store.SaveConfiguration(&cfg))

	w = ts.get(t, "/api/v1/config", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")

	var got ConfigurationResponse
	decodeData(t, w, &got)
	assert.Equal(t, cfg.NTPPool, got.NTPPool)
	assert.Equal(t, "weekend", got.DayBlankingName)
	assert.True(t, got.WebPasswordSet)
	assert.Equal(t, cfg.PIRTimeout, got.PIRTimeout)
}

func TestRoutesRequireAPIKey(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/api/v1/health", "/api/v1/stats", "/api/v1/config"} {
		t.Run(path, func(t *testing.T) {
			w := ts.get(t, path, false)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
	assert.Zero(t, ts.mem.Mounts(), "rejected requests never touch the volume")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	ts.get(t, "/api/v1/health", true)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("X-API-Key", "wrong")
	ts.handler.ServeHTTP(httptest.NewRecorder(), req)

	w := ts.get(t, "/metrics", false)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `clockstore_http_requests_total{endpoint="/api/v1/health",method="GET",status_code="200"} 1`)
	assert.Contains(t, body, `clockstore_auth_requests_total{status="error"} 1`)
	assert.Contains(t, body, `clockstore_store_operations_total{operation="test_mount",status="success"} 1`)
	assert.True(t, strings.Contains(body, "clockstore_http_request_duration_seconds"))
}

func TestServerAddr(t *testing.T) {
	server := NewServer(nil, ServerConfig{Port: 9300, Bind: "127.0.0.1"}, nil, prometheus.NewRegistry(), nil)
	assert.Equal(t, "127.0.0.1:9300", server.Addr())
}
