package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Subscription represents a user's subscription to a plan.
// Records are created and updated by the billing webhook relay; the rest of
// the application treats them as read-only.
type Subscription struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	PlanType           PlanType
	Status             Status
	ProviderSubID      string // billing provider's subscription ID
	ProviderCustomerID string // billing provider's customer ID
	PeriodEnd          time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsActive returns true if the subscription currently grants access.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// IsCanceled returns true if the subscription has been canceled.
func (s *Subscription) IsCanceled() bool {
	return s.Status == StatusCanceled
}

// IsPastDue returns true if the latest payment attempt failed.
func (s *Subscription) IsPastDue() bool {
	return s.Status == StatusPastDue
}

// Latest returns the subscription with the furthest period end. The table
// carries no uniqueness guarantee on (user_id, status), so callers holding
// several active rows use this to pick the authoritative one. Panics on an
// empty slice.
func Latest(subs []Subscription) Subscription {
	latest := subs[0]
	for _, candidate := range subs[1:] {
		if candidate.PeriodEnd.After(latest.PeriodEnd) {
			latest = candidate
		}
	}
	return latest
}
