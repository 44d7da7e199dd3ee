package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetRiderPoints handles GET /riders/{riderID}/points.
// Returns the rider's balance, last-active date, and recent point history
// (newest first) for auditing against the attendance logs.
func (s *Server) GetRiderPoints(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ledger.RiderPoints(r.Context(), chi.URLParam(r, "riderID"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
