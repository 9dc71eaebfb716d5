package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memeforge/memeforge/internal/entitlement"
	"github.com/memeforge/memeforge/pkg/pg"
)

// UsageStore persists per-user usage counters in the user_usage table.
type UsageStore struct {
	pool *pgxpool.Pool
}

// NewUsageStore creates a usage store backed by pool.
func NewUsageStore(pool *pgxpool.Pool) *UsageStore {
	if pool == nil {
		panic("postgres.NewUsageStore: pool is required")
	}
	return &UsageStore{pool: pool}
}

const usageColumns = `user_id, free_remaining, total_generated, created_at, updated_at`

// Get retrieves the usage record for a user.
func (s *UsageStore) Get(ctx context.Context, userID uuid.UUID) (*entitlement.UsageRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+usageColumns+` FROM user_usage WHERE user_id = $1`,
		userID,
	)

	rec, err := scanUsage(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, entitlement.ErrUsageNotFound
		}
		return nil, fmt.Errorf("get usage: %w", err)
	}
	return rec, nil
}

// Ensure returns the user's usage record, creating it with the full quota if
// absent. ON CONFLICT DO UPDATE with a no-op assignment makes the insert
// race-free while still returning the surviving row.
func (s *UsageStore) Ensure(ctx context.Context, userID uuid.UUID, quota int) (*entitlement.UsageRecord, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO user_usage (user_id, free_remaining, total_generated)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id) DO UPDATE SET user_id = user_usage.user_id
		RETURNING `+usageColumns,
		userID, quota,
	)

	rec, err := scanUsage(row)
	if err != nil {
		return nil, fmt.Errorf("ensure usage: %w", err)
	}
	return rec, nil
}

// Apply records one generation in a single statement: the total always
// increments, the free counter decrements floored at zero only when
// chargeFree is set. Absent rows are created in the same statement.
func (s *UsageStore) Apply(ctx context.Context, userID uuid.UUID, quota int, chargeFree bool) (*entitlement.UsageRecord, error) {
	initialFree := quota
	if chargeFree {
		initialFree = quota - 1
		if initialFree < 0 {
			initialFree = 0
		}
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO user_usage (user_id, free_remaining, total_generated)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id) DO UPDATE SET
			total_generated = user_usage.total_generated + 1,
			free_remaining = CASE
				WHEN $3 THEN GREATEST(user_usage.free_remaining - 1, 0)
				ELSE user_usage.free_remaining
			END,
			updated_at = now()
		RETURNING `+usageColumns,
		userID, initialFree, chargeFree,
	)

	rec, err := scanUsage(row)
	if err != nil {
		return nil, fmt.Errorf("apply usage: %w", err)
	}
	return rec, nil
}

// List returns usage records ordered by last update descending, for admin
// views.
func (s *UsageStore) List(ctx context.Context, limit, offset int) ([]entitlement.UsageRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+usageColumns+` FROM user_usage ORDER BY updated_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()

	var records []entitlement.UsageRecord
	for rows.Next() {
		rec, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("list usage: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUsage(row rowScanner) (*entitlement.UsageRecord, error) {
	var rec entitlement.UsageRecord
	if err := row.Scan(
		&rec.UserID,
		&rec.FreeRemaining,
		&rec.TotalGenerated,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
