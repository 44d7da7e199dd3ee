// Package handler implements the HTTP handlers for the attendance tracker
// API. All handlers are methods on Server; methods are split into
// domain-specific files (health.go, attendance.go, rider.go) but all share
// the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/outreachapp/bus-ministry/backend/internal/domain"
)

// AttendanceServicer defines the business operations the attendance handlers
// depend on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type AttendanceServicer interface {
	GetOrCreateLog(ctx context.Context, date, route, actor string, allowCreate bool) (domain.AttendanceLog, error)
	ToggleAttendance(ctx context.Context, date, route, personID string, period domain.Period) (domain.AttendanceLog, error)
	History(ctx context.Context, route string, limit int) ([]domain.AttendanceLog, error)
}

// LedgerServicer defines the point-registry reads the rider handler depends on.
type LedgerServicer interface {
	RiderPoints(ctx context.Context, riderID string) (domain.RiderSummary, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	attendance AttendanceServicer
	ledger     LedgerServicer
	logger     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(attendance AttendanceServicer, ledger LedgerServicer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{attendance: attendance, ledger: ledger, logger: logger}
}

// Register mounts every API route on the given router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)

	r.Route("/routes/{route}", func(r chi.Router) {
		r.Get("/logs", s.GetHistory)
		r.Get("/logs/{date}", s.GetLog)
		r.Post("/logs/{date}/toggle", s.ToggleAttendance)
	})

	r.Get("/riders/{riderID}/points", s.GetRiderPoints)
}
