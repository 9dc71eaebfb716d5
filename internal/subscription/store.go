package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store defines subscription persistence.
// The backing table carries no uniqueness guarantee on (user_id, status), so
// ActiveByUser returns a slice rather than a single record.
type Store interface {
	// ActiveByUser returns all subscriptions for the user with status "active".
	// An empty slice means the user is not subscribed; it is not an error.
	ActiveByUser(ctx context.Context, userID uuid.UUID) ([]Subscription, error)

	// ByProviderSubID retrieves a subscription by the billing provider's
	// subscription ID. Returns ErrNotFound if no record exists.
	ByProviderSubID(ctx context.Context, providerSubID string) (*Subscription, error)

	// Upsert creates or replaces a subscription keyed by ProviderSubID.
	Upsert(ctx context.Context, sub *Subscription) error

	// UpdateStatus changes the status of the subscription identified by the
	// provider's subscription ID. A non-nil periodEnd also moves the renewal
	// boundary. Returns ErrNotFound if no record matches.
	UpdateStatus(ctx context.Context, providerSubID string, status Status, periodEnd *time.Time) error

	// List returns subscriptions ordered by creation time descending,
	// for admin views.
	List(ctx context.Context, limit, offset int) ([]Subscription, error)
}
