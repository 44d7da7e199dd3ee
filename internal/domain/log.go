// Package domain contains the core data types for the bus ministry attendance
// tracker. This package has zero external dependencies and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Period is one of the two independently tracked attendance slots per day.
type Period string

const (
	PeriodMorning Period = "morning"
	PeriodEvening Period = "evening"
)

// ParsePeriod validates a period string from an untrusted source (HTTP body,
// query param). Returns ErrValidation for anything other than the two known
// periods.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodMorning, PeriodEvening:
		return Period(s), nil
	default:
		return "", fmt.Errorf("%w: period must be %q or %q", ErrValidation, PeriodMorning, PeriodEvening)
	}
}

// PersonType classifies a person on a route roster.
type PersonType string

const (
	TypeWorker   PersonType = "worker"
	TypeRider    PersonType = "rider"
	TypeProspect PersonType = "prospect"
)

// RiderSource records how a rider entered the roster. Empty for non-riders.
type RiderSource string

const (
	SourceProspect RiderSource = "prospect"
	SourceManual   RiderSource = "manual"
)

// AttendeeRecord is one person's entry inside an attendance log.
// Name is a snapshot taken when the record is created and refreshed only by
// reconciliation passes — it is not kept live-synced to the roster otherwise.
type AttendeeRecord struct {
	Name    string      `json:"name"`
	Type    PersonType  `json:"type"`
	Source  RiderSource `json:"source,omitempty"` // set only for riders
	Morning bool        `json:"morning"`
	Evening bool        `json:"evening"`
}

// AttendanceMap maps person ID to that person's record for one log.
// The map representation itself enforces key uniqueness.
type AttendanceMap map[string]AttendeeRecord

// Counts returns the number of entries marked present for the morning and
// evening periods. The log's stored counters are always recomputed from a full
// scan of the map rather than adjusted incrementally, so they can never drift
// from the records they summarize.
func (m AttendanceMap) Counts() (morning, evening int) {
	for _, rec := range m {
		if rec.Morning {
			morning++
		}
		if rec.Evening {
			evening++
		}
	}
	return morning, evening
}

// AttendanceLog is the per-(date, route) attendance record.
// Date and Route are immutable once the log exists; MorningCount and
// EveningCount are derived from Attendance and recomputed on every mutation.
type AttendanceLog struct {
	Key          string        `json:"key"`
	Date         string        `json:"date"`  // "2006-01-02"
	Route        string        `json:"route"` // normalized route name
	Attendance   AttendanceMap `json:"attendance"`
	MorningCount int           `json:"morning_count"`
	EveningCount int           `json:"evening_count"`
	CreatedBy    string        `json:"created_by"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// LogKey derives the storage key for the attendance log of a given date and
// route. It is a pure function: the same (date, route) pair always yields the
// same key. Whitespace runs in the route name are collapsed so that
// "Route 1" and "Route  1 " address the same log.
func LogKey(date, route string) string {
	return date + "_" + strings.Join(strings.Fields(route), "-")
}

// NormalizeRoute collapses whitespace runs in a route name to single spaces
// and trims the ends, giving the canonical display form stored and queried by
// the log store.
func NormalizeRoute(route string) string {
	return strings.Join(strings.Fields(route), " ")
}

// ValidateDate checks that date is a calendar date in "2006-01-02" form.
// Returns ErrValidation otherwise.
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: date must be formatted YYYY-MM-DD", ErrValidation)
	}
	return nil
}
