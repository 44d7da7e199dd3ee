package domain

import (
	"time"

	"github.com/google/uuid"
)

// PointEntry is one append-only record in a rider's point history. Entries
// are never mutated or removed: repeated toggles of the same day and period
// produce offsetting entries rather than one net entry, preserving the audit
// trail downstream reporting reads.
type PointEntry struct {
	ID        uuid.UUID `json:"id"`
	RiderID   string    `json:"rider_id"`
	Date      string    `json:"date"` // the attendance date, not the write time
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// RiderPoints is the current ledger state for one rider: the running point
// balance plus the most recent date the rider was marked present.
type RiderPoints struct {
	RiderID    string `json:"rider_id"`
	Points     int    `json:"points"`
	LastActive string `json:"last_active,omitempty"` // "2006-01-02", empty if never present
}

// RiderSummary pairs a rider's current balance with their entry history,
// newest first. Auditing compares this history against the attendance logs.
type RiderSummary struct {
	Rider   RiderPoints  `json:"rider"`
	Entries []PointEntry `json:"entries"`
}
