package service

import (
	"context"
	"fmt"

	"github.com/outreachapp/bus-ministry/backend/internal/domain"
	"github.com/outreachapp/bus-ministry/backend/internal/repo"
)

// riderEntryLimit bounds how much history a single summary read returns.
// The ledger is append-only and uncompacted, so a frequently toggled rider
// accumulates entries without bound.
const riderEntryLimit = 100

// LedgerService exposes read access to the rider point registry so point
// history can be audited against attendance history.
type LedgerService struct {
	ledger repo.LedgerRepo
}

// NewLedgerService constructs a LedgerService backed by the provided LedgerRepo.
func NewLedgerService(ledger repo.LedgerRepo) *LedgerService {
	return &LedgerService{ledger: ledger}
}

// RiderPoints returns a rider's current balance, last-active marker, and
// recent entry history, newest first.
// Returns domain.ErrNotFound if the rider has never earned points.
func (s *LedgerService) RiderPoints(ctx context.Context, riderID string) (domain.RiderSummary, error) {
	if riderID == "" {
		return domain.RiderSummary{}, fmt.Errorf("%w: rider id is required", domain.ErrValidation)
	}

	rider, err := s.ledger.GetRider(ctx, riderID)
	if err != nil {
		return domain.RiderSummary{}, fmt.Errorf("service.LedgerService.RiderPoints: %w", err)
	}

	entries, err := s.ledger.ListEntries(ctx, riderID, riderEntryLimit)
	if err != nil {
		return domain.RiderSummary{}, fmt.Errorf("service.LedgerService.RiderPoints: %w", err)
	}
	if entries == nil {
		entries = []domain.PointEntry{}
	}

	return domain.RiderSummary{Rider: rider, Entries: entries}, nil
}
