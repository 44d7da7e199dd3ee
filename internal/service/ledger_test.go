package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachapp/bus-ministry/backend/internal/domain"
	"github.com/outreachapp/bus-ministry/backend/internal/repo"
	"github.com/outreachapp/bus-ministry/backend/internal/service"
)

// mockLedgerReader is a read-side test double for repo.LedgerRepo.
type mockLedgerReader struct {
	mockLedgerRepo

	getRider    func(ctx context.Context, riderID string) (domain.RiderPoints, error)
	listEntries func(ctx context.Context, riderID string, limit int) ([]domain.PointEntry, error)
}

func (m *mockLedgerReader) GetRider(ctx context.Context, riderID string) (domain.RiderPoints, error) {
	return m.getRider(ctx, riderID)
}
func (m *mockLedgerReader) ListEntries(ctx context.Context, riderID string, limit int) ([]domain.PointEntry, error) {
	return m.listEntries(ctx, riderID, limit)
}

var _ repo.LedgerRepo = (*mockLedgerReader)(nil)

func TestLedgerService_RiderPoints_OK(t *testing.T) {
	entry := domain.PointEntry{
		ID:        uuid.New(),
		RiderID:   "r1",
		Date:      "2024-06-02",
		Amount:    10,
		Reason:    "Ride (morning) - 2024-06-02",
		CreatedAt: time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	svc := service.NewLedgerService(&mockLedgerReader{
		getRider: func(_ context.Context, riderID string) (domain.RiderPoints, error) {
			return domain.RiderPoints{RiderID: riderID, Points: 10, LastActive: "2024-06-02"}, nil
		},
		listEntries: func(_ context.Context, _ string, _ int) ([]domain.PointEntry, error) {
			return []domain.PointEntry{entry}, nil
		},
	})

	got, err := svc.RiderPoints(context.Background(), "r1")

	require.NoError(t, err)
	assert.Equal(t, 10, got.Rider.Points)
	assert.Equal(t, "2024-06-02", got.Rider.LastActive)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, entry, got.Entries[0])
}

func TestLedgerService_RiderPoints_NotFound(t *testing.T) {
	svc := service.NewLedgerService(&mockLedgerReader{
		getRider: func(_ context.Context, _ string) (domain.RiderPoints, error) {
			return domain.RiderPoints{}, domain.ErrNotFound
		},
	})

	_, err := svc.RiderPoints(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerService_RiderPoints_EmptyID(t *testing.T) {
	svc := service.NewLedgerService(&mockLedgerReader{})

	_, err := svc.RiderPoints(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLedgerService_RiderPoints_NoEntries(t *testing.T) {
	svc := service.NewLedgerService(&mockLedgerReader{
		getRider: func(_ context.Context, riderID string) (domain.RiderPoints, error) {
			return domain.RiderPoints{RiderID: riderID}, nil
		},
		listEntries: func(_ context.Context, _ string, _ int) ([]domain.PointEntry, error) {
			return nil, nil
		},
	})

	got, err := svc.RiderPoints(context.Background(), "r1")

	require.NoError(t, err)
	assert.NotNil(t, got.Entries)
	assert.Empty(t, got.Entries)
}
