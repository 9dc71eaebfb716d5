// Package ratelimit provides a sliding window rate limiter with pluggable
// storage backends. The in-memory store suits single-process deployments;
// the Redis store shares windows across replicas.
package ratelimit

import (
	"context"
	"time"
)

// Config configures the sliding window limiter.
type Config struct {
	// Limit is the maximum number of requests per window.
	Limit int `env:"RATELIMIT_LIMIT" envDefault:"30"`

	// Window is the sliding window duration.
	Window time.Duration `env:"RATELIMIT_WINDOW" envDefault:"1m"`
}

// SlidingWindow tracks individual request timestamps within a moving time
// window. More accurate than fixed windows at the cost of storing one entry
// per request.
type SlidingWindow struct {
	store  Store
	limit  int
	window time.Duration
}

// NewSlidingWindow creates a sliding window limiter backed by store.
func NewSlidingWindow(store Store, cfg Config) (*SlidingWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if cfg.Limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if cfg.Window <= 0 {
		return nil, ErrInvalidInterval
	}

	return &SlidingWindow{
		store:  store,
		limit:  cfg.Limit,
		window: cfg.Window,
	}, nil
}

// Allow checks if a request is allowed for the given key, recording it on
// success.
func (sw *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := time.Now()
	allowed, count, err := sw.store.RecordIfAllowed(ctx, key, now, sw.window, sw.limit)
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:   allowed,
		Limit:     sw.limit,
		Remaining: max(0, sw.limit-int(count)),
		ResetAt:   now.Add(sw.window),
	}, nil
}

// Status reports the current window state without consuming a slot.
func (sw *SlidingWindow) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := time.Now()
	count, err := sw.store.Count(ctx, key, now, sw.window)
	if err != nil {
		return nil, err
	}

	remaining := sw.limit - int(count)
	return &Result{
		Allowed:   remaining > 0,
		Limit:     sw.limit,
		Remaining: max(0, remaining),
		ResetAt:   now.Add(sw.window),
	}, nil
}

// Reset clears the recorded window for the given key.
func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return sw.store.Reset(ctx, key)
}
