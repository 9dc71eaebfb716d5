package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memeforge/memeforge/internal/subscription"
	"github.com/memeforge/memeforge/pkg/pg"
)

// SubscriptionStore persists billing subscriptions in the subscriptions table.
type SubscriptionStore struct {
	pool *pgxpool.Pool
}

// NewSubscriptionStore creates a subscription store backed by pool.
func NewSubscriptionStore(pool *pgxpool.Pool) *SubscriptionStore {
	if pool == nil {
		panic("postgres.NewSubscriptionStore: pool is required")
	}
	return &SubscriptionStore{pool: pool}
}

const subscriptionColumns = `id, user_id, plan_type, status, provider_sub_id, provider_customer_id, period_end, created_at, updated_at`

// ActiveByUser returns all subscriptions for the user with status "active".
func (s *SubscriptionStore) ActiveByUser(ctx context.Context, userID uuid.UUID) ([]subscription.Subscription, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1 AND status = $2`,
		userID, subscription.StatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("active subscriptions: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// ByProviderSubID retrieves a subscription by the provider's subscription ID.
func (s *SubscriptionStore) ByProviderSubID(ctx context.Context, providerSubID string) (*subscription.Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE provider_sub_id = $1`,
		providerSubID,
	)

	sub, err := scanSubscription(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, subscription.ErrNotFound
		}
		return nil, fmt.Errorf("subscription by provider id: %w", err)
	}
	return sub, nil
}

// Upsert creates or replaces a subscription keyed by ProviderSubID.
func (s *SubscriptionStore) Upsert(ctx context.Context, sub *subscription.Subscription) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO subscriptions (id, user_id, plan_type, status, provider_sub_id, provider_customer_id, period_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (provider_sub_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			plan_type = EXCLUDED.plan_type,
			status = EXCLUDED.status,
			provider_customer_id = EXCLUDED.provider_customer_id,
			period_end = EXCLUDED.period_end,
			updated_at = now()`,
		sub.ID, sub.UserID, sub.PlanType, sub.Status, sub.ProviderSubID, sub.ProviderCustomerID, sub.PeriodEnd,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// UpdateStatus changes the status of the subscription identified by the
// provider's subscription ID; a non-nil periodEnd also moves the renewal
// boundary.
func (s *SubscriptionStore) UpdateStatus(ctx context.Context, providerSubID string, status subscription.Status, periodEnd *time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE subscriptions SET
			status = $2,
			period_end = COALESCE($3, period_end),
			updated_at = now()
		WHERE provider_sub_id = $1`,
		providerSubID, status, periodEnd,
	)
	if err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return subscription.ErrNotFound
	}
	return nil
}

// List returns subscriptions ordered by creation time descending.
func (s *SubscriptionStore) List(ctx context.Context, limit, offset int) ([]subscription.Subscription, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

func collectSubscriptions(rows pgx.Rows) ([]subscription.Subscription, error) {
	var subs []subscription.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func scanSubscription(row rowScanner) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	if err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanType,
		&sub.Status,
		&sub.ProviderSubID,
		&sub.ProviderCustomerID,
		&sub.PeriodEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}
