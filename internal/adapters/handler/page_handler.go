package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/i18n"
)

//go:embed templates/*.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/dashboard.html"))

// PageHandler renders the dashboard as a server-side HTML page.
type PageHandler struct {
	dashboardService ports.DashboardService
	translator       *i18n.Translator
	logger           *zerolog.Logger
	simulator        bool
}

// NewPageHandler shows the earthquake simulator buttons when simulator is
// true; they are hidden when the trigger requires a bearer token.
func NewPageHandler(dashboard ports.DashboardService, translator *i18n.Translator, logger *zerolog.Logger, simulator bool) *PageHandler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &PageHandler{
		dashboardService: dashboard,
		translator:       translator,
		logger:           logger,
		simulator:        simulator,
	}
}

type simulatorButton struct {
	Location  domain.Location
	Intensity int
	Label     string
}

type pageData struct {
	Lang              string
	LangParam         string
	Title             string
	Query             string
	SearchPlaceholder string
	SearchButton      string
	Flash             string
	View              ViewResponse
	UnresolvedNotice  string
	SimulatorTitle    string
	Simulator         []simulatorButton
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	loc := localizerFor(h.translator, r)

	view, err := h.dashboardService.Snapshot(r.Context(), query)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Dashboard page abandoned")
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
		return
	}

	data := pageData{
		Lang:              loc.T(i18n.MsgLang, nil),
		LangParam:         r.URL.Query().Get("lang"),
		Title:             loc.T(i18n.MsgTitle, nil),
		Query:             query,
		SearchPlaceholder: loc.T(i18n.MsgSearchPlaceholder, nil),
		SearchButton:      loc.T(i18n.MsgSearchButton, nil),
		View:              renderView(view, loc),
	}

	if data.View.Unresolved > 0 {
		data.UnresolvedNotice = loc.T(i18n.MsgUnresolvedNotice, map[string]interface{}{"Count": data.View.Unresolved})
	}

	switch r.URL.Query().Get("earthquake") {
	case "triggered":
		data.Flash = loc.T(i18n.MsgEarthquakeTriggered, nil)
	case "failed":
		data.Flash = loc.T(i18n.MsgEarthquakeFailed, nil)
	}

	if h.simulator {
		data.SimulatorTitle = loc.T(i18n.MsgEarthquakeTitle, nil)
		for _, l := range []domain.Location{domain.LocationTokyo, domain.LocationNiigata} {
			for _, intensity := range []int{3, 7} {
				data.Simulator = append(data.Simulator, simulatorButton{
					Location:  l,
					Intensity: intensity,
					Label: loc.T(i18n.MsgEarthquakeTrigger, map[string]interface{}{
						"Location":  loc.LocationName(l),
						"Intensity": intensity,
					}),
				})
			}
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render dashboard page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
