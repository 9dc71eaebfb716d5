package entitlement

import (
	"time"

	"github.com/google/uuid"
)

// DefaultFreeQuota is the number of generations a user gets before having to
// subscribe, unless overridden by configuration.
const DefaultFreeQuota = 5

// Config holds the entitlement policy knobs.
type Config struct {
	// FreeQuota is the number of free generations granted to new users.
	FreeQuota int `env:"ENTITLEMENT_FREE_QUOTA" envDefault:"5"`

	// FailOpenOnStoreError grants the default free quota when the store is
	// unreachable during an entitlement check instead of denying access.
	// Availability-over-strictness trade-off; off by default.
	FailOpenOnStoreError bool `env:"ENTITLEMENT_FAIL_OPEN" envDefault:"false"`
}

// UsageRecord tracks per-user generation counters. One row per user, created
// lazily on the first entitlement check.
type UsageRecord struct {
	UserID         uuid.UUID
	FreeRemaining  int // never negative, never above the configured quota
	TotalGenerated int // monotonically non-decreasing
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reason explains an entitlement decision.
type Reason string

const (
	ReasonActiveSubscription Reason = "has-active-subscription"
	ReasonFreeQuota          Reason = "has-free-quota"
	ReasonQuotaExhausted     Reason = "quota-exhausted"
)

// Decision is the outcome of an entitlement check. It is ephemeral and never
// persisted.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason"`

	// RemainingAfter is the free-quota value the caller should display after
	// the decision: the count as read, before any consumption. Zero for
	// subscriber decisions where the counter is not consulted.
	RemainingAfter int `json:"remaining"`
}
