package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/outreachapp/bus-ministry/backend/internal/domain"
)

// defaultActor identifies log creations not attributed to a signed-in session.
const defaultActor = "api"

// GetLog handles GET /routes/{route}/logs/{date}.
//
// With ?create=true the log is materialized on first access; without it a
// date with no stored log answers 404 so browsing never creates empty logs.
// The creating session is taken from the X-Actor-Id header.
func (s *Server) GetLog(w http.ResponseWriter, r *http.Request) {
	route, err := routeParam(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed route name")
		return
	}
	date := chi.URLParam(r, "date")
	allowCreate := r.URL.Query().Get("create") == "true"

	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		actor = defaultActor
	}

	log, err := s.attendance.GetOrCreateLog(r.Context(), date, route, actor, allowCreate)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, log)
}

// toggleRequest is the body for POST /routes/{route}/logs/{date}/toggle.
type toggleRequest struct {
	PersonID string `json:"person_id"`
	Period   string `json:"period"`
}

// ToggleAttendance handles POST /routes/{route}/logs/{date}/toggle.
// Flips one person's presence flag for one period and returns the updated log.
func (s *Server) ToggleAttendance(w http.ResponseWriter, r *http.Request) {
	route, err := routeParam(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed route name")
		return
	}
	date := chi.URLParam(r, "date")

	var body toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "request body is required")
		return
	}

	period, err := domain.ParsePeriod(body.Period)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	log, err := s.attendance.ToggleAttendance(r.Context(), date, route, body.PersonID, period)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, log)
}

// historyResponse wraps the log list for GET /routes/{route}/logs.
type historyResponse struct {
	Route string                 `json:"route"`
	Logs  []domain.AttendanceLog `json:"logs"`
}

// GetHistory handles GET /routes/{route}/logs.
// Supports ?limit= (default 30, max 100); logs come back most recent first.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	route, err := routeParam(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed route name")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "limit must be an integer")
			return
		}
	}

	logs, err := s.attendance.History(r.Context(), route, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Route: domain.NormalizeRoute(route), Logs: logs})
}

// routeParam extracts and unescapes the {route} path parameter.
// Route names contain spaces ("Route 1"), which arrive percent-encoded.
func routeParam(r *http.Request) (string, error) {
	return url.PathUnescape(chi.URLParam(r, "route"))
}
