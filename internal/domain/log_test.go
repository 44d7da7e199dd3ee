package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachapp/bus-ministry/backend/internal/domain"
)

// TestLogKey_Deterministic verifies that deriving the key twice for the same
// inputs always yields the same result.
func TestLogKey_Deterministic(t *testing.T) {
	k1 := domain.LogKey("2024-06-02", "Route 1")
	k2 := domain.LogKey("2024-06-02", "Route 1")

	assert.Equal(t, k1, k2)
	assert.Equal(t, "2024-06-02_Route-1", k1)
}

// TestLogKey_WhitespaceRuns verifies that route names differing only in
// whitespace runs produce the same key.
func TestLogKey_WhitespaceRuns(t *testing.T) {
	base := domain.LogKey("2024-06-02", "Route 1")

	for _, route := range []string{"Route  1", " Route 1", "Route 1 ", "Route \t 1"} {
		assert.Equal(t, base, domain.LogKey("2024-06-02", route), "route %q", route)
	}
}

// TestLogKey_DistinctInputs verifies that different dates or routes never
// collide.
func TestLogKey_DistinctInputs(t *testing.T) {
	assert.NotEqual(t,
		domain.LogKey("2024-06-02", "Route 1"),
		domain.LogKey("2024-06-03", "Route 1"))
	assert.NotEqual(t,
		domain.LogKey("2024-06-02", "Route 1"),
		domain.LogKey("2024-06-02", "Route 2"))
}

func TestNormalizeRoute(t *testing.T) {
	assert.Equal(t, "Route 1", domain.NormalizeRoute("  Route   1 "))
	assert.Equal(t, "Route 1", domain.NormalizeRoute("Route 1"))
}

func TestParsePeriod(t *testing.T) {
	p, err := domain.ParsePeriod("morning")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodMorning, p)

	p, err = domain.ParsePeriod("evening")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodEvening, p)

	_, err = domain.ParsePeriod("afternoon")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateDate(t *testing.T) {
	require.NoError(t, domain.ValidateDate("2024-06-02"))
	assert.ErrorIs(t, domain.ValidateDate("06/02/2024"), domain.ErrValidation)
	assert.ErrorIs(t, domain.ValidateDate("not-a-date"), domain.ErrValidation)
}

// TestAttendanceMap_Counts verifies the full-scan derived counters.
func TestAttendanceMap_Counts(t *testing.T) {
	m := domain.AttendanceMap{
		"p1": {Name: "Ann", Type: domain.TypeWorker, Morning: true, Evening: true},
		"p2": {Name: "Ben", Type: domain.TypeRider, Source: domain.SourceManual, Morning: true},
		"p3": {Name: "Cal", Type: domain.TypeProspect},
	}

	morning, evening := m.Counts()

	assert.Equal(t, 2, morning)
	assert.Equal(t, 1, evening)
}

func TestClampHistoryLimit(t *testing.T) {
	assert.Equal(t, domain.DefaultHistoryLimit, domain.ClampHistoryLimit(0))
	assert.Equal(t, domain.DefaultHistoryLimit, domain.ClampHistoryLimit(-5))
	assert.Equal(t, 10, domain.ClampHistoryLimit(10))
	assert.Equal(t, domain.MaxHistoryLimit, domain.ClampHistoryLimit(500))
}
