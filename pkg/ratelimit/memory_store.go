package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sliding windows in process memory. Expired entries are
// pruned lazily on access and periodically by a background sweep.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time

	sweepInterval time.Duration
	stopSweep     chan struct{}
	stopOnce      sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithSweepInterval sets how often expired windows are pruned.
func WithSweepInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// NewMemoryStore creates an in-memory store with a background sweep.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows:       make(map[string][]time.Time),
		sweepInterval: time.Minute,
		stopSweep:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.sweepLoop()

	return s
}

// RecordIfAllowed atomically counts, records when under limit, and returns
// the count after the call.
func (s *MemoryStore) RecordIfAllowed(_ context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.prune(key, now.Add(-window))
	if len(live) >= limit {
		return false, int64(len(live)), nil
	}

	live = append(live, now)
	s.windows[key] = live
	return true, int64(len(live)), nil
}

// Count returns the number of live entries for the key.
func (s *MemoryStore) Count(_ context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.prune(key, now.Add(-window)))), nil
}

// Reset removes the key's window.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// Close stops the background sweep.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stopSweep) })
}

// prune drops entries at or before cutoff. Caller must hold mu.
func (s *MemoryStore) prune(key string, cutoff time.Time) []time.Time {
	entries := s.windows[key]
	live := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}
	if len(live) == 0 {
		delete(s.windows, key)
		return nil
	}
	s.windows[key] = live
	return live
}

func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopSweep:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			// The store does not know each limiter's window, so the sweep
			// only drops entries no plausible window could still cover.
			for key := range s.windows {
				s.prune(key, now.Add(-24*time.Hour))
			}
			s.mu.Unlock()
		}
	}
}
