package domain

// History limits. The default covers roughly a month of daily logs; the cap
// prevents runaway queries from the HTTP layer.
const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 100
)

// ClampHistoryLimit normalizes a caller-supplied history limit.
// Zero or negative values fall back to the default; values above the cap are
// reduced to it.
func ClampHistoryLimit(limit int) int {
	if limit < 1 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
