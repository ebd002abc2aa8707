package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/i18n"
)

// ViewResponse is the JSON form of a domain.View.
type ViewResponse struct {
	State      domain.ViewKind    `json:"state"`
	Message    string             `json:"message,omitempty"`
	Reason     domain.EmptyReason `json:"reason,omitempty"`
	Entries    []EntryResponse    `json:"entries"`
	Unresolved int                `json:"unresolved"`
}

type EntryResponse struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Name        string        `json:"name"`
	Initials    string        `json:"initials"`
	Address     string        `json:"address"`
	Status      domain.Status `json:"status"`
	StatusLabel string        `json:"status_label"`
	Timestamp   string        `json:"timestamp"`
	Location    string        `json:"location"`
}

func renderView(v domain.View, loc *i18n.Localizer) ViewResponse {
	resp := ViewResponse{State: v.Kind(), Entries: []EntryResponse{}}

	switch v := v.(type) {
	case domain.Loading:
		resp.Message = loc.T(i18n.MsgLoading, nil)
	case domain.Failed:
		resp.Message = loc.T(i18n.MsgFetchFailed, nil)
	case domain.Empty:
		resp.Reason = v.Reason
		resp.Message = loc.EmptyMessage(v.Reason)
		resp.Unresolved = v.Unresolved
	case domain.Populated:
		resp.Unresolved = v.Unresolved
		resp.Entries = make([]EntryResponse, 0, len(v.Entries))
		for _, e := range v.Entries {
			resp.Entries = append(resp.Entries, renderEntry(e, loc))
		}
	}
	return resp
}

func renderEntry(e domain.Entry, loc *i18n.Localizer) EntryResponse {
	name := e.DisplayName()
	if !e.Resolved() {
		name = loc.T(i18n.MsgUnknownUser, nil)
	}

	location := e.Report.LocationOrUnknown()
	if location == domain.UnknownLocation {
		location = loc.T(i18n.MsgUnknownLocation, nil)
	}

	var address string
	if e.User != nil {
		address = e.User.Address
	}

	return EntryResponse{
		ID:          e.Report.ID,
		UserID:      e.Report.UserID,
		Name:        name,
		Initials:    domain.Initials(name),
		Address:     address,
		Status:      e.Report.Status,
		StatusLabel: loc.StatusLabel(e.Report.Status),
		Timestamp:   e.Report.Timestamp,
		Location:    location,
	}
}

func writeJSON(w http.ResponseWriter, logger *zerolog.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func localizerFor(t *i18n.Translator, r *http.Request) *i18n.Localizer {
	return t.Localizer(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}
