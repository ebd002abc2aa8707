package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/i18n"
)

type EarthquakeHandler struct {
	earthquakeService ports.EarthquakeService
	translator        *i18n.Translator
	logger            *zerolog.Logger
}

func NewEarthquakeHandler(earthquake ports.EarthquakeService, translator *i18n.Translator, logger *zerolog.Logger) *EarthquakeHandler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &EarthquakeHandler{
		earthquakeService: earthquake,
		translator:        translator,
		logger:            logger,
	}
}

type EarthquakeResponse struct {
	Message string `json:"message"`
}

// Occur forwards the simulator trigger. It takes a JSON body or the page's
// form; an empty body means tokyo at intensity 3. Form posts are answered
// with a redirect back to the page.
func (h *EarthquakeHandler) Occur(w http.ResponseWriter, r *http.Request) {
	isForm := isFormPost(r)

	req, err := decodeEarthquakeRequest(r, isForm)
	if err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	loc := localizerFor(h.translator, r)
	err = h.earthquakeService.Trigger(r.Context(), req)

	if isForm {
		target := "/?earthquake=triggered"
		if err != nil {
			target = "/?earthquake=failed"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidEarthquake):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		writeJSON(w, h.logger, http.StatusBadGateway, EarthquakeResponse{Message: loc.T(i18n.MsgEarthquakeFailed, nil)})
	default:
		writeJSON(w, h.logger, http.StatusAccepted, EarthquakeResponse{Message: loc.T(i18n.MsgEarthquakeTriggered, nil)})
	}
}

// Limited answers a trigger turned away by the rate limiter. The page's
// form gets the same redirect as a failed trigger.
func (h *EarthquakeHandler) Limited(w http.ResponseWriter, r *http.Request) {
	if isFormPost(r) {
		http.Redirect(w, r, "/?earthquake=failed", http.StatusSeeOther)
		return
	}
	http.Error(w, "too many requests", http.StatusTooManyRequests)
}

func isFormPost(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func decodeEarthquakeRequest(r *http.Request, isForm bool) (domain.EarthquakeRequest, error) {
	var req domain.EarthquakeRequest

	if isForm {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Location = domain.Location(r.PostForm.Get("location"))
		if raw := r.PostForm.Get("intensity"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return req, err
			}
			req.Intensity = n
		}
		return req, nil
	}

	err := json.NewDecoder(r.Body).Decode(&req)
	if errors.Is(err, io.EOF) {
		return domain.EarthquakeRequest{}, nil
	}
	return req, err
}
