package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachapp/bus-ministry/backend/internal/domain"
	"github.com/outreachapp/bus-ministry/backend/internal/repo"
)

func entryFixture(riderID string, amount int) domain.PointEntry {
	reason := "Ride (morning) - 2024-06-02"
	if amount < 0 {
		reason = "Ride Cancelled (morning) - 2024-06-02"
	}
	return domain.PointEntry{
		ID:        uuid.New(),
		RiderID:   riderID,
		Date:      "2024-06-02",
		Amount:    amount,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

func TestLedgerRepo_IncrementPoints_CreatesAndAccumulates(t *testing.T) {
	r := repo.NewLedgerRepo(newTestTx(t))
	ctx := context.Background()

	require.NoError(t, r.IncrementPoints(ctx, "r1", 10))
	require.NoError(t, r.IncrementPoints(ctx, "r1", 10))
	require.NoError(t, r.IncrementPoints(ctx, "r1", -10))

	rider, err := r.GetRider(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 10, rider.Points)
	assert.Empty(t, rider.LastActive, "increments alone never stamp last-active")
}

func TestLedgerRepo_SetLastActive(t *testing.T) {
	r := repo.NewLedgerRepo(newTestTx(t))
	ctx := context.Background()

	// Works before any points exist (row is created on first use).
	require.NoError(t, r.SetLastActive(ctx, "r1", "2024-06-02"))

	rider, err := r.GetRider(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-02", rider.LastActive)
	assert.Equal(t, 0, rider.Points)

	// A later date overwrites, and the accumulated balance survives.
	require.NoError(t, r.IncrementPoints(ctx, "r1", 10))
	require.NoError(t, r.SetLastActive(ctx, "r1", "2024-06-09"))

	rider, err = r.GetRider(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-09", rider.LastActive)
	assert.Equal(t, 10, rider.Points)
}

func TestLedgerRepo_GetRider_NotFound(t *testing.T) {
	r := repo.NewLedgerRepo(newTestTx(t))

	_, err := r.GetRider(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerRepo_AppendAndListEntries(t *testing.T) {
	r := repo.NewLedgerRepo(newTestTx(t))
	ctx := context.Background()

	first := entryFixture("r1", 10)
	first.CreatedAt = time.Now().UTC().Add(-time.Minute)
	second := entryFixture("r1", -10)

	require.NoError(t, r.AppendEntry(ctx, first))
	require.NoError(t, r.AppendEntry(ctx, second))
	require.NoError(t, r.AppendEntry(ctx, entryFixture("other", 10)))

	entries, err := r.ListEntries(ctx, "r1", 10)

	require.NoError(t, err)
	require.Len(t, entries, 2, "other riders' entries are excluded")
	assert.Equal(t, second.ID, entries[0].ID, "newest first")
	assert.Equal(t, -10, entries[0].Amount)
	assert.Equal(t, "Ride Cancelled (morning) - 2024-06-02", entries[0].Reason)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, "Ride (morning) - 2024-06-02", entries[1].Reason)
}

func TestLedgerRepo_ListEntries_Limit(t *testing.T) {
	r := repo.NewLedgerRepo(newTestTx(t))
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		e := entryFixture("r1", 10)
		e.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, r.AppendEntry(ctx, e))
	}

	entries, err := r.ListEntries(ctx, "r1", 3)

	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
