package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/outreachapp/bus-ministry/backend/internal/domain"
)

// RosterRepo is the read-only view of the people registry the attendance core
// reconciles against. People are added, removed, and reclassified by the
// contact-management side of the application; this subsystem never writes to
// the roster.
type RosterRepo interface {
	// ListActive returns every active person on the route, across all three
	// classifications. Callers partition by Type as needed.
	ListActive(ctx context.Context, route string) ([]domain.Person, error)
}

// pgRosterRepo is the Postgres implementation of RosterRepo.
type pgRosterRepo struct {
	db db
}

// NewRosterRepo constructs a RosterRepo backed by the provided db connection.
func NewRosterRepo(db db) RosterRepo {
	return &pgRosterRepo{db: db}
}

// ListActive returns all active people for a route, ordered by name.
func (r *pgRosterRepo) ListActive(ctx context.Context, route string) ([]domain.Person, error) {
	const q = `
		SELECT id, route, name, type, source
		FROM people
		WHERE route = @route AND active
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route": route})
	if err != nil {
		return nil, fmt.Errorf("repo.RosterRepo.ListActive: %w", err)
	}
	defer rows.Close()

	var people []domain.Person
	for rows.Next() {
		var (
			p      domain.Person
			source pgtype.Text
		)
		if err := rows.Scan(&p.ID, &p.Route, &p.Name, &p.Type, &source); err != nil {
			return nil, fmt.Errorf("repo.RosterRepo.ListActive: scan: %w", err)
		}
		if source.Valid {
			p.Source = domain.RiderSource(source.String)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RosterRepo.ListActive: rows: %w", err)
	}

	return people, nil
}
