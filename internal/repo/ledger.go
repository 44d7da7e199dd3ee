package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/outreachapp/bus-ministry/backend/internal/domain"
)

// LedgerRepo defines the persistence operations for the rider point registry.
// Each operation is independently callable and individually succeeds or
// reports failure — the attendance core does not require them to be atomic
// together.
type LedgerRepo interface {
	// IncrementPoints adjusts a rider's running balance by amount (which may
	// be negative). A rider row is created on first use.
	IncrementPoints(ctx context.Context, riderID string, amount int) error

	// AppendEntry records one point-earning event in the rider's history.
	// Entries are append-only and never compacted.
	AppendEntry(ctx context.Context, entry domain.PointEntry) error

	// SetLastActive records the most recent date the rider was marked
	// present. A rider row is created on first use.
	SetLastActive(ctx context.Context, riderID, date string) error

	// GetRider returns the rider's current balance and last-active marker.
	// Returns domain.ErrNotFound if the rider has no ledger row yet.
	GetRider(ctx context.Context, riderID string) (domain.RiderPoints, error)

	// ListEntries returns up to limit history entries for the rider, newest
	// first.
	ListEntries(ctx context.Context, riderID string, limit int) ([]domain.PointEntry, error)
}

// pgLedgerRepo is the Postgres implementation of LedgerRepo.
type pgLedgerRepo struct {
	db db
}

// NewLedgerRepo constructs a LedgerRepo backed by the provided db connection.
func NewLedgerRepo(db db) LedgerRepo {
	return &pgLedgerRepo{db: db}
}

// IncrementPoints upserts the rider row and adds amount to the balance.
// The ON CONFLICT arithmetic keeps the adjustment atomic per call, so two
// concurrent increments never lose an update.
func (r *pgLedgerRepo) IncrementPoints(ctx context.Context, riderID string, amount int) error {
	const q = `
		INSERT INTO rider_points (rider_id, points)
		VALUES (@rider_id, @amount)
		ON CONFLICT (rider_id) DO UPDATE
		SET points = rider_points.points + EXCLUDED.points`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"rider_id": riderID, "amount": amount}); err != nil {
		return fmt.Errorf("repo.LedgerRepo.IncrementPoints: %w", err)
	}
	return nil
}

// AppendEntry inserts one immutable history row.
func (r *pgLedgerRepo) AppendEntry(ctx context.Context, entry domain.PointEntry) error {
	const q = `
		INSERT INTO point_entries (id, rider_id, date, amount, reason, created_at)
		VALUES (@id, @rider_id, @date, @amount, @reason, @created_at)`

	args := pgx.NamedArgs{
		"id":         entry.ID,
		"rider_id":   entry.RiderID,
		"date":       entry.Date,
		"amount":     entry.Amount,
		"reason":     entry.Reason,
		"created_at": entry.CreatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.LedgerRepo.AppendEntry: %w", err)
	}
	return nil
}

// SetLastActive upserts the rider row and stamps the last-active date.
func (r *pgLedgerRepo) SetLastActive(ctx context.Context, riderID, date string) error {
	const q = `
		INSERT INTO rider_points (rider_id, points, last_active)
		VALUES (@rider_id, 0, @date)
		ON CONFLICT (rider_id) DO UPDATE
		SET last_active = EXCLUDED.last_active`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"rider_id": riderID, "date": date}); err != nil {
		return fmt.Errorf("repo.LedgerRepo.SetLastActive: %w", err)
	}
	return nil
}

// GetRider retrieves a rider's balance row.
func (r *pgLedgerRepo) GetRider(ctx context.Context, riderID string) (domain.RiderPoints, error) {
	const q = `
		SELECT rider_id, points, last_active
		FROM rider_points
		WHERE rider_id = @rider_id`

	var (
		rp         domain.RiderPoints
		lastActive pgtype.Text
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"rider_id": riderID}).
		Scan(&rp.RiderID, &rp.Points, &lastActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RiderPoints{}, fmt.Errorf("repo.LedgerRepo.GetRider: %w", domain.ErrNotFound)
		}
		return domain.RiderPoints{}, fmt.Errorf("repo.LedgerRepo.GetRider: %w", err)
	}
	if lastActive.Valid {
		rp.LastActive = lastActive.String
	}
	return rp, nil
}

// ListEntries returns the rider's history, newest entry first.
func (r *pgLedgerRepo) ListEntries(ctx context.Context, riderID string, limit int) ([]domain.PointEntry, error) {
	const q = `
		SELECT id, rider_id, date, amount, reason, created_at
		FROM point_entries
		WHERE rider_id = @rider_id
		ORDER BY created_at DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"rider_id": riderID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.LedgerRepo.ListEntries: %w", err)
	}
	defer rows.Close()

	var entries []domain.PointEntry
	for rows.Next() {
		var (
			e  domain.PointEntry
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &e.RiderID, &e.Date, &e.Amount, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo.LedgerRepo.ListEntries: scan: %w", err)
		}
		e.ID = uuid.UUID(id.Bytes)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LedgerRepo.ListEntries: rows: %w", err)
	}

	return entries, nil
}
