package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/adapters/middleware"
)

// Handlers groups everything SetupRoutes mounts. Auth and RateLimit are
// optional.
type Handlers struct {
	Dashboard  *DashboardHandler
	Page       *PageHandler
	Earthquake *EarthquakeHandler
	Health     *HealthHandler
	Metrics    http.Handler

	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimiter
}

func SetupRoutes(router *mux.Router, h Handlers) {
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Health endpoints (OpenShift compatible)
	router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", h.Health.Ready).Methods(http.MethodGet)
	router.HandleFunc("/health/live", h.Health.Live).Methods(http.MethodGet)
	if h.Metrics != nil {
		router.Handle("/metrics", h.Metrics).Methods(http.MethodGet)
	}

	router.HandleFunc("/", h.Page.Dashboard).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	// mux reports a method mismatch under a subrouter as 404 unless the
	// subrouter has its own handler.
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api.HandleFunc("/dashboard", h.Dashboard.Snapshot).Methods(http.MethodGet)
	api.HandleFunc("/dashboards", h.Dashboard.Open).Methods(http.MethodPost)
	api.HandleFunc("/dashboards/{id}", h.Dashboard.Get).Methods(http.MethodGet)
	api.HandleFunc("/dashboards/{id}", h.Dashboard.Close).Methods(http.MethodDelete)

	occur := h.Earthquake.Occur
	if h.Auth != nil {
		occur = h.Auth.RequireRole([]string{"ADMIN"}, occur)
	}
	if h.RateLimit != nil {
		occur = h.RateLimit.Limit(occur, h.Earthquake.Limited)
	}
	api.HandleFunc("/earthquakes/occur", occur).Methods(http.MethodPost)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
