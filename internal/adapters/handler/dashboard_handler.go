package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/services"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/i18n"
)

type DashboardHandler struct {
	dashboardService ports.DashboardService
	translator       *i18n.Translator
	logger           *zerolog.Logger
}

func NewDashboardHandler(dashboard ports.DashboardService, translator *i18n.Translator, logger *zerolog.Logger) *DashboardHandler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &DashboardHandler{
		dashboardService: dashboard,
		translator:       translator,
		logger:           logger,
	}
}

type OpenResponse struct {
	ID   string       `json:"id"`
	View ViewResponse `json:"view"`
}

// Snapshot mounts a dashboard for this request only and returns its
// settled view.
func (h *DashboardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboardService.Snapshot(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Warn().Err(err).Msg("Dashboard snapshot abandoned")
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, renderView(view, localizerFor(h.translator, r)))
}

func (h *DashboardHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, view, err := h.dashboardService.Open(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to open dashboard")
		http.Error(w, "failed to open dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", "/api/dashboards/"+id)
	writeJSON(w, h.logger, http.StatusCreated, OpenResponse{
		ID:   id,
		View: renderView(view, localizerFor(h.translator, r)),
	})
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboardService.View(mux.Vars(r)["id"], r.URL.Query().Get("q"))
	if errors.Is(err, services.ErrSessionNotFound) {
		http.Error(w, "dashboard not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to render dashboard")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, renderView(view, localizerFor(h.translator, r)))
}

func (h *DashboardHandler) Close(w http.ResponseWriter, r *http.Request) {
	err := h.dashboardService.Close(mux.Vars(r)["id"])
	if errors.Is(err, services.ErrSessionNotFound) {
		http.Error(w, "dashboard not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to close dashboard")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
