package entitlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/memeforge/memeforge/internal/subscription"
)

// UsageStore defines usage-record persistence. All mutations are expressed as
// single conditional operations so implementations can make them atomic at
// the row level; callers must not build read-modify-write cycles on top.
type UsageStore interface {
	// Get retrieves the usage record for a user.
	// Returns ErrUsageNotFound if the user has never been seen.
	Get(ctx context.Context, userID uuid.UUID) (*UsageRecord, error)

	// Ensure returns the user's usage record, creating it with FreeRemaining
	// set to quota and TotalGenerated zero if absent. Safe to call
	// repeatedly: concurrent callers for the same user observe a single row.
	Ensure(ctx context.Context, userID uuid.UUID, quota int) (*UsageRecord, error)

	// Apply records one generation: TotalGenerated always increments by one;
	// FreeRemaining decrements by one floored at zero only when chargeFree is
	// set. If no record exists one is created with TotalGenerated 1 and
	// FreeRemaining quota-1 (chargeFree) or quota. The whole operation must
	// be atomic per user.
	Apply(ctx context.Context, userID uuid.UUID, quota int, chargeFree bool) (*UsageRecord, error)
}

// SubscriptionSource is the read side of the subscription store that the
// entitlement service consults.
type SubscriptionSource interface {
	ActiveByUser(ctx context.Context, userID uuid.UUID) ([]subscription.Subscription, error)
}
