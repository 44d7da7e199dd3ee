package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist — a missing log when creation is not permitted, or
// a person absent from an existing log's attendance map.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. malformed date, unknown period, blank route).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRosterUnavailable is returned when the roster source cannot be read.
// Reconciliation must not proceed without a roster, so this propagates to the
// caller instead of silently returning possibly-stale attendance data.
// Handlers should map this to HTTP 503.
var ErrRosterUnavailable = errors.New("roster unavailable")
