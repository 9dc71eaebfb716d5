package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is allowed.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests remaining in the current window.
	Remaining int

	// ResetAt is when the oldest recorded request leaves the window.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the current request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Limiter checks whether a keyed request may proceed.
type Limiter interface {
	// Allow checks if a request is allowed for the given key and, if so,
	// records it against the window.
	Allow(ctx context.Context, key string) (*Result, error)

	// Status reports the current window state without recording anything.
	Status(ctx context.Context, key string) (*Result, error)

	// Reset clears the recorded window for the given key.
	Reset(ctx context.Context, key string) error
}

// Store is the sliding window storage backend. RecordIfAllowed must be
// atomic: concurrent calls for the same key may never admit more than limit
// requests within a window.
type Store interface {
	// RecordIfAllowed counts requests within the window ending at now,
	// records the request when the count is below limit, and returns
	// whether it was recorded along with the count after the call.
	RecordIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (allowed bool, count int64, err error)

	// Count returns the number of recorded requests within the window.
	Count(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)

	// Reset removes all recorded requests for the key.
	Reset(ctx context.Context, key string) error
}
