package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/adapters/middleware"
)

func corsRequest(origins []string, method, origin string, preflight bool) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	req := httptest.NewRequest(method, "/api/dashboard", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	}
	rec := httptest.NewRecorder()
	middleware.CORSMiddleware(origins)(next).ServeHTTP(rec, req)
	return rec
}

func TestCORS_AllowedOrigin(t *testing.T) {
	rec := corsRequest([]string{"http://app.test"}, http.MethodGet, "http://app.test", false)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_UnknownOrigin(t *testing.T) {
	rec := corsRequest([]string{"http://app.test"}, http.MethodGet, "http://evil.test", false)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	rec := corsRequest([]string{"*"}, http.MethodGet, "", false)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = corsRequest([]string{"*"}, http.MethodGet, "http://any.test", false)
	assert.Equal(t, "http://any.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	rec := corsRequest([]string{"*"}, http.MethodOptions, "http://any.test", true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), middleware.RequestIDHeader)
}
