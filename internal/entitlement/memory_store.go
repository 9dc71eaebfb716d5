package entitlement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryUsageStore is a mutex-guarded UsageStore for tests and local
// development. It implements the same conditional semantics the Postgres
// store expresses in SQL.
type MemoryUsageStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]UsageRecord
}

// NewMemoryUsageStore returns an empty in-memory usage store.
func NewMemoryUsageStore() *MemoryUsageStore {
	return &MemoryUsageStore{
		records: make(map[uuid.UUID]UsageRecord),
	}
}

func (s *MemoryUsageStore) Get(ctx context.Context, userID uuid.UUID) (*UsageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, ErrUsageNotFound
	}
	return &rec, nil
}

func (s *MemoryUsageStore) Ensure(ctx context.Context, userID uuid.UUID, quota int) (*UsageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		now := time.Now().UTC()
		rec = UsageRecord{
			UserID:        userID,
			FreeRemaining: quota,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		s.records[userID] = rec
	}
	return &rec, nil
}

func (s *MemoryUsageStore) Apply(ctx context.Context, userID uuid.UUID, quota int, chargeFree bool) (*UsageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	rec, ok := s.records[userID]
	if !ok {
		rec = UsageRecord{
			UserID:        userID,
			FreeRemaining: quota,
			CreatedAt:     now,
		}
	}

	rec.TotalGenerated++
	if chargeFree && rec.FreeRemaining > 0 {
		rec.FreeRemaining--
	}
	rec.UpdatedAt = now

	s.records[userID] = rec
	return &rec, nil
}

// Seed inserts a record directly, replacing any existing one. Test helper.
func (s *MemoryUsageStore) Seed(rec UsageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UserID] = rec
}
