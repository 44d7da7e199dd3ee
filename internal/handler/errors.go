package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/outreachapp/bus-ministry/backend/internal/domain"
)

// ErrorResponse is the JSON body returned for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serializes v with the given status. Encoding failures are beyond
// recovery at this point — the status line is already written — so they are
// ignored.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError serializes an ErrorResponse with the given status and code.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeDomainError maps a service-layer error onto the HTTP response:
// ErrNotFound → 404, ErrValidation → 422, ErrRosterUnavailable → 503,
// anything else → 500 with a generic body (the cause is logged by the caller,
// never leaked to the client).
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", unwrapMessage(err))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrRosterUnavailable):
		writeError(w, http.StatusServiceUnavailable, "roster_unavailable", "roster source is unavailable")
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel
// error, dropping the "service.X.Method:" call-site prefixes added along the
// way. e.g. "service.AttendanceService.GetOrCreateLog: not found" → "not found".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	parts := strings.Split(err.Error(), ": ")
	for i, p := range parts {
		if !strings.HasPrefix(p, "service.") && !strings.HasPrefix(p, "repo.") {
			return strings.Join(parts[i:], ": ")
		}
	}
	return err.Error()
}
