package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/adapters/middleware"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/metrics"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	m := metrics.New()

	var seenID string
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(&logger, m))
	router.HandleFunc("/api/dashboards/{id}", func(w http.ResponseWriter, r *http.Request) {
		seenID = middleware.RequestID(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboards/abc", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rec.Header().Get(middleware.RequestIDHeader))

	out := buf.String()
	assert.Contains(t, out, `"route":"/api/dashboards/{id}"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"request_id":"`+seenID+`"`)
	assert.Contains(t, out, `"mobile":true`)

	count, err := testutil.GatherAndCount(m.Registry(), "safety_dashboard_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoggingMiddleware_KeepsIncomingRequestID(t *testing.T) {
	logger := zerolog.Nop()
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(&logger, nil))
	router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "pong", rec.Body.String())
}
