// Package repo contains all database access logic for the attendance tracker.
// Each store has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/outreachapp/bus-ministry/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// LogRepo defines the persistence operations for attendance logs.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the reconciliation and toggle logic to be
// unit-tested with a mock.
type LogRepo interface {
	// Get retrieves the log stored under key.
	// Returns domain.ErrNotFound if no log with that key exists.
	Get(ctx context.Context, key string) (domain.AttendanceLog, error)

	// Create inserts a new log and returns the persisted record with the
	// DB-set updated_at populated. A log is created at most once per key.
	Create(ctx context.Context, log domain.AttendanceLog) (domain.AttendanceLog, error)

	// UpdateAttendance overwrites only the attendance map of an existing log,
	// leaving the derived counters untouched. Used by reconciliation, which
	// never flips presence flags. Returns domain.ErrNotFound if the key is
	// absent.
	UpdateAttendance(ctx context.Context, key string, att domain.AttendanceMap) (domain.AttendanceLog, error)

	// UpdateToggle overwrites the attendance map together with both derived
	// counters after a presence flip. Returns domain.ErrNotFound if the key
	// is absent.
	UpdateToggle(ctx context.Context, key string, att domain.AttendanceMap, morning, evening int) (domain.AttendanceLog, error)

	// ListByRoute returns up to limit logs for the route, ordered by date
	// descending (most recent first).
	ListByRoute(ctx context.Context, route string, limit int) ([]domain.AttendanceLog, error)
}

// pgLogRepo is the Postgres implementation of LogRepo. The attendance map is
// stored as a jsonb column, mirroring the map-keyed document shape: person ID
// uniqueness is enforced by the JSON object representation itself.
type pgLogRepo struct {
	db db
}

// NewLogRepo constructs a LogRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewLogRepo(db db) LogRepo {
	return &pgLogRepo{db: db}
}

const logColumns = `key, date, route, attendance, morning_count, evening_count, created_by, updated_at`

// Get retrieves a log by its deterministic key.
func (r *pgLogRepo) Get(ctx context.Context, key string) (domain.AttendanceLog, error) {
	const q = `
		SELECT ` + logColumns + `
		FROM attendance_logs
		WHERE key = @key`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key})
	result, err := scanLog(row)
	if err != nil {
		return domain.AttendanceLog{}, fmt.Errorf("repo.LogRepo.Get: %w", err)
	}
	return result, nil
}

// Create inserts a new log row and returns the full persisted record.
func (r *pgLogRepo) Create(ctx context.Context, log domain.AttendanceLog) (domain.AttendanceLog, error) {
	const q = `
		INSERT INTO attendance_logs (key, date, route, attendance, morning_count, evening_count, created_by)
		VALUES (@key, @date, @route, @attendance, @morning_count, @evening_count, @created_by)
		RETURNING ` + logColumns

	args := pgx.NamedArgs{
		"key":           log.Key,
		"date":          log.Date,
		"route":         log.Route,
		"attendance":    log.Attendance,
		"morning_count": log.MorningCount,
		"evening_count": log.EveningCount,
		"created_by":    log.CreatedBy,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanLog(row)
	if err != nil {
		return domain.AttendanceLog{}, fmt.Errorf("repo.LogRepo.Create: %w", err)
	}
	return result, nil
}

// UpdateAttendance persists only the attendance field of an existing log.
func (r *pgLogRepo) UpdateAttendance(ctx context.Context, key string, att domain.AttendanceMap) (domain.AttendanceLog, error) {
	const q = `
		UPDATE attendance_logs
		SET attendance = @attendance,
		    updated_at = now()
		WHERE key = @key
		RETURNING ` + logColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key, "attendance": att})
	result, err := scanLog(row)
	if err != nil {
		return domain.AttendanceLog{}, fmt.Errorf("repo.LogRepo.UpdateAttendance: %w", err)
	}
	return result, nil
}

// UpdateToggle persists the attendance map and both derived counters.
func (r *pgLogRepo) UpdateToggle(ctx context.Context, key string, att domain.AttendanceMap, morning, evening int) (domain.AttendanceLog, error) {
	const q = `
		UPDATE attendance_logs
		SET attendance    = @attendance,
		    morning_count = @morning_count,
		    evening_count = @evening_count,
		    updated_at    = now()
		WHERE key = @key
		RETURNING ` + logColumns

	args := pgx.NamedArgs{
		"key":           key,
		"attendance":    att,
		"morning_count": morning,
		"evening_count": evening,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanLog(row)
	if err != nil {
		return domain.AttendanceLog{}, fmt.Errorf("repo.LogRepo.UpdateToggle: %w", err)
	}
	return result, nil
}

// ListByRoute returns logs for a route ordered by date descending.
func (r *pgLogRepo) ListByRoute(ctx context.Context, route string, limit int) ([]domain.AttendanceLog, error) {
	const q = `
		SELECT ` + logColumns + `
		FROM attendance_logs
		WHERE route = @route
		ORDER BY date DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route": route, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.LogRepo.ListByRoute: %w", err)
	}
	defer rows.Close()

	var logs []domain.AttendanceLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LogRepo.ListByRoute: scan: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LogRepo.ListByRoute: rows: %w", err)
	}

	return logs, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanLog to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanLog maps a single database row into a domain.AttendanceLog.
// The jsonb attendance column unmarshals directly into the AttendanceMap.
func scanLog(s scanner) (domain.AttendanceLog, error) {
	var l domain.AttendanceLog

	err := s.Scan(&l.Key, &l.Date, &l.Route, &l.Attendance,
		&l.MorningCount, &l.EveningCount, &l.CreatedBy, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AttendanceLog{}, domain.ErrNotFound
		}
		return domain.AttendanceLog{}, err
	}

	if l.Attendance == nil {
		l.Attendance = domain.AttendanceMap{}
	}
	return l, nil
}
