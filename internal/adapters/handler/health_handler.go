package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// Pinger is the part of the Redis client the readiness probe needs.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type HealthHandler struct {
	db          *sql.DB
	redisClient Pinger
	backend     *gobreaker.CircuitBreaker
	startTime   time.Time
	version     string
	logger      *zerolog.Logger
}

// NewHealthHandler takes the optional dependencies; a nil one is left out
// of the readiness checks.
func NewHealthHandler(version string, db *sql.DB, redisClient Pinger, backend *gobreaker.CircuitBreaker, logger *zerolog.Logger) *HealthHandler {
	if version == "" {
		version = "unknown"
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		backend:     backend,
		startTime:   time.Now(),
		version:     version,
		logger:      logger,
	}
}

// HealthResponse follows Kubernetes/OpenShift health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health is a simple liveness check - just confirms the Go process is running
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.response("UP", map[string]Check{"process": {Status: "UP"}}))
}

// Live is an alias for Health - simple liveness check
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// Ready checks if the service is ready to accept traffic (readiness probe)
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]Check)

	if h.db != nil {
		checks["database"] = h.checkDatabase(r.Context())
	}
	if h.redisClient != nil {
		checks["redis"] = h.checkRedis(r.Context())
	}
	if h.backend != nil {
		checks["backend"] = h.checkBackend()
	}

	status := "UP"
	httpStatus := http.StatusOK
	for _, c := range checks {
		if c.Status != "UP" {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, h.logger, httpStatus, h.response(status, checks))
}

func (h *HealthHandler) response(status string, checks map[string]Check) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return Check{
			Status:  "DOWN",
			Message: "Cannot connect to database",
		}
	}
	return Check{Status: "UP"}
}

func (h *HealthHandler) checkRedis(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		return Check{
			Status:  "DOWN",
			Message: "Cannot connect to Redis",
		}
	}
	return Check{Status: "UP"}
}

// checkBackend reports the breaker guarding the safety check API; the
// backend itself is not called.
func (h *HealthHandler) checkBackend() Check {
	if state := h.backend.State(); state == gobreaker.StateOpen {
		return Check{
			Status:  "DOWN",
			Message: "Circuit breaker is " + state.String(),
		}
	}
	return Check{Status: "UP"}
}
