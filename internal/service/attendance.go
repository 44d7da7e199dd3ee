// Package service contains the business logic for the attendance tracker:
// log reconciliation against the live roster, presence toggling with derived
// counter maintenance, and best-effort rider ledger synchronization.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/outreachapp/bus-ministry/backend/internal/domain"
	"github.com/outreachapp/bus-ministry/backend/internal/repo"
)

// ridePoints is the point value of one attended period for a rider. A toggle
// back to absent books the same amount negatively rather than deleting the
// earlier entry.
const ridePoints = 10

// AttendanceService maintains the per-(date, route) attendance logs and keeps
// the rider point ledger consistent with them.
//
// The log store is shared between independent callers (captains on different
// devices). A toggle is a read-then-recompute-then-write sequence, so two
// concurrent toggles on the same log race and the last write wins. Serializing
// writes per log key is a known hardening point, not something this service
// does today.
type AttendanceService struct {
	logs   repo.LogRepo
	roster repo.RosterRepo
	ledger repo.LedgerRepo
	logger *slog.Logger
}

// NewAttendanceService constructs an AttendanceService backed by the provided
// stores. The logger receives ledger synchronization failures, which are
// reported there and nowhere else.
func NewAttendanceService(logs repo.LogRepo, roster repo.RosterRepo, ledger repo.LedgerRepo, logger *slog.Logger) *AttendanceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceService{logs: logs, roster: roster, ledger: ledger, logger: logger}
}

// GetOrCreateLog returns the canonical attendance log for (date, route),
// reconciled against the current roster.
//
// When no log exists and allowCreate is false it returns domain.ErrNotFound
// without writing anything, so browsing an inactive date never materializes
// an empty log. When allowCreate is true a fresh log is built with one record
// per roster person, both presence flags false and both counters zero.
//
// An existing log is reconciled in place: roster newcomers are added with
// both flags false, records whose type or rider source disagree with the
// roster's current classification are corrected, and prospect records whose
// person is no longer an active prospect are removed. The attendance field is
// persisted only when something actually changed — reconciliation runs on
// every read, and an unconditional write would churn updated_at with no
// information gain. Reconciliation never flips presence flags and never
// touches the counters.
//
// Returns domain.ErrRosterUnavailable if the roster cannot be read;
// reconciliation never proceeds against a stale roster.
func (s *AttendanceService) GetOrCreateLog(ctx context.Context, date, route, actor string, allowCreate bool) (domain.AttendanceLog, error) {
	if err := domain.ValidateDate(date); err != nil {
		return domain.AttendanceLog{}, err
	}
	route = domain.NormalizeRoute(route)
	if route == "" {
		return domain.AttendanceLog{}, fmt.Errorf("%w: route is required", domain.ErrValidation)
	}

	key := domain.LogKey(date, route)

	stored, err := s.logs.Get(ctx, key)
	exists := err == nil
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.AttendanceLog{}, fmt.Errorf("service.AttendanceService.GetOrCreateLog: %w", err)
	}

	people, err := s.roster.ListActive(ctx, route)
	if err != nil {
		return domain.AttendanceLog{}, fmt.Errorf("service.AttendanceService.GetOrCreateLog: %w: %w", domain.ErrRosterUnavailable, err)
	}

	if !exists {
		if !allowCreate {
			return domain.AttendanceLog{}, fmt.Errorf("service.AttendanceService.GetOrCreateLog: %w", domain.ErrNotFound)
		}

		att := make(domain.AttendanceMap, len(people))
		for _, p := range people {
			att[p.ID] = domain.AttendeeRecord{Name: p.Name, Type: p.Type, Source: riderSource(p)}
		}
		created, err := s.logs.Create(ctx, domain.AttendanceLog{
			Key:        key,
			Date:       date,
			Route:      route,
			Attendance: att,
			CreatedBy:  actor,
		})
		if err != nil {
			return domain.AttendanceLog{}, fmt.Errorf("service.AttendanceService.GetOrCreateLog: %w", err)
		}
		return created, nil
	}

	if changed := reconcile(stored.Attendance, people); changed {
		updated, err := s.logs.UpdateAttendance(ctx, key, stored.Attendance)
		if err != nil {
			return domain.AttendanceLog{}, fmt.Errorf("service.AttendanceService.GetOrCreateLog: %w", err)
		}
		return updated, nil
	}

	return stored, nil
}

// reconcile aligns an attendance map with the current roster without
// disturbing presence flags. Returns true if the map was modified.
//
// Three passes:
//   - roster people missing from the map are added with both flags false;
//   - existing records whose name, type, or rider source disagree with the
//     roster's current classification are overwritten (the source field is
//     dropped when the person is no longer a rider);
//   - prospect records whose person is not in the active-prospect set are
//     removed (the prospect converted or left).
//
// Records for workers and riders who left the roster are kept: a key is only
// ever removed for a departed prospect.
func reconcile(att domain.AttendanceMap, people []domain.Person) bool {
	changed := false

	activeProspects := make(map[string]bool)
	for _, p := range people {
		if p.Type == domain.TypeProspect {
			activeProspects[p.ID] = true
		}
	}

	for _, p := range people {
		rec, ok := att[p.ID]
		if !ok {
			att[p.ID] = domain.AttendeeRecord{Name: p.Name, Type: p.Type, Source: riderSource(p)}
			changed = true
			continue
		}
		if src := riderSource(p); rec.Name != p.Name || rec.Type != p.Type || rec.Source != src {
			rec.Name = p.Name
			rec.Type = p.Type
			rec.Source = src
			att[p.ID] = rec
			changed = true
		}
	}

	for id, rec := range att {
		if rec.Type == domain.TypeProspect && !activeProspects[id] {
			delete(att, id)
			changed = true
		}
	}

	return changed
}

// riderSource returns the person's rider source, or empty for non-riders so a
// stale source never survives a reclassification.
func riderSource(p domain.Person) domain.RiderSource {
	if p.Type != domain.TypeRider {
		return ""
	}
	return p.Source
}

// ToggleAttendance flips one person's presence flag for one period on an
// existing log, recomputes both derived counters with a full rescan of the
// attendance map, persists the log, and — when the person is a rider —
// triggers a best-effort ledger synchronization.
//
// Returns domain.ErrNotFound if no log exists for (date, route) or if
// personID is absent from its attendance map; callers are expected to have
// reconciled first via GetOrCreateLog.
func (s *AttendanceService) ToggleAttendance(ctx context.Context, date, route, personID string, period domain.Period) (domain.AttendanceLog, error) {
	if err := domain.ValidateDate(date); err != nil {
		return domain.AttendanceLog{}, err
	}
	route = domain.NormalizeRoute(route)
	if personID == "" {
		return domain.AttendanceLog{}, fmt.Errorf("%w: person id is required", domain.ErrValidation)
	}

	key := domain.LogKey(date, route)

	log, err := s.logs.Get(ctx, key)
	if err != nil {
		return domain.AttendanceLog{}, fmt.Errorf("service.AttendanceService.ToggleAttendance: %w", err)
	}

	rec, ok := log.Attendance[personID]
	if !ok {
		return domain.AttendanceLog{}, fmt.Errorf("service.AttendanceService.ToggleAttendance: person %q not on log: %w", personID, domain.ErrNotFound)
	}

	var isPresent bool
	switch period {
	case domain.PeriodMorning:
		rec.Morning = !rec.Morning
		isPresent = rec.Morning
	case domain.PeriodEvening:
		rec.Evening = !rec.Evening
		isPresent = rec.Evening
	default:
		return domain.AttendanceLog{}, fmt.Errorf("%w: unknown period %q", domain.ErrValidation, period)
	}
	log.Attendance[personID] = rec

	// Full recount against the in-hand map after the flip. Incremental
	// counters could drift from the records under concurrent partial writes;
	// a rescan is always locally consistent.
	morning, evening := log.Attendance.Counts()
	log.MorningCount = morning
	log.EveningCount = evening

	updated, err := s.logs.UpdateToggle(ctx, key, log.Attendance, morning, evening)
	if err != nil {
		return domain.AttendanceLog{}, fmt.Errorf("service.AttendanceService.ToggleAttendance: %w", err)
	}

	// The attendance record is the system of record for presence; the ledger
	// is a derived side effect. Once the attendance write has succeeded,
	// nothing the ledger does can fail the toggle.
	if rec.Type == domain.TypeRider {
		s.syncRiderLedger(ctx, personID, date, period, isPresent)
	}

	return updated, nil
}

// syncRiderLedger books a point adjustment for one rider's attendance change:
// +10 when marked present, -10 when the ride is cancelled, an append-only
// history entry either way, and a last-active stamp on presence.
//
// Best effort, one attempt per store call: the error is logged and swallowed,
// never retried and never propagated. A transiently unavailable ledger leaves
// the point history under- or over-counted relative to attendance until
// someone audits the two against each other.
func (s *AttendanceService) syncRiderLedger(ctx context.Context, riderID, date string, period domain.Period, isPresent bool) {
	amount := ridePoints
	reason := fmt.Sprintf("Ride (%s) - %s", period, date)
	if !isPresent {
		amount = -ridePoints
		reason = fmt.Sprintf("Ride Cancelled (%s) - %s", period, date)
	}

	if err := s.ledger.IncrementPoints(ctx, riderID, amount); err != nil {
		s.logger.Error("ledger sync failed",
			"rider_id", riderID, "date", date, "op", "increment_points", "error", err)
		return
	}

	entry := domain.PointEntry{
		ID:        uuid.New(),
		RiderID:   riderID,
		Date:      date,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ledger.AppendEntry(ctx, entry); err != nil {
		s.logger.Error("ledger sync failed",
			"rider_id", riderID, "date", date, "op", "append_entry", "error", err)
		return
	}

	if isPresent {
		if err := s.ledger.SetLastActive(ctx, riderID, date); err != nil {
			s.logger.Error("ledger sync failed",
				"rider_id", riderID, "date", date, "op", "set_last_active", "error", err)
		}
	}
}

// History returns logs for a route ordered most-recent-first, bounded by
// limit (see domain.ClampHistoryLimit for defaults). Pure read; no
// reconciliation and no mutation. Always returns a non-nil slice so callers
// can safely range over it.
func (s *AttendanceService) History(ctx context.Context, route string, limit int) ([]domain.AttendanceLog, error) {
	route = domain.NormalizeRoute(route)
	if route == "" {
		return nil, fmt.Errorf("%w: route is required", domain.ErrValidation)
	}

	logs, err := s.logs.ListByRoute(ctx, route, domain.ClampHistoryLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("service.AttendanceService.History: %w", err)
	}
	if logs == nil {
		return []domain.AttendanceLog{}, nil
	}
	return logs, nil
}
