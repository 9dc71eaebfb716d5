package entitlement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/memeforge/memeforge/internal/subscription"
)

// Service is the public interface for entitlement decisions.
type Service interface {
	// CheckEntitlement decides whether the user may generate right now.
	// Quota exhaustion is a normal decision outcome, not an error; only
	// store-level failures produce an error.
	CheckEntitlement(ctx context.Context, userID uuid.UUID) (Decision, error)

	// RecordGeneration records one completed generation. It is not
	// idempotent: calling it twice charges twice. Callers invoke it exactly
	// once per successful generation.
	RecordGeneration(ctx context.Context, userID uuid.UUID) (UsageRecord, error)

	// Usage returns the user's usage record, lazily creating it with the
	// full free quota on first sight. Backs the dashboard view.
	Usage(ctx context.Context, userID uuid.UUID) (UsageRecord, error)
}

type service struct {
	usage UsageStore
	subs  SubscriptionSource
	cfg   Config
	log   *slog.Logger
}

// NewService creates an entitlement Service.
// Panics if required dependencies are nil to fail fast during initialization.
// A non-positive FreeQuota falls back to DefaultFreeQuota.
func NewService(usage UsageStore, subs SubscriptionSource, cfg Config, log *slog.Logger) Service {
	if usage == nil {
		panic("entitlement: UsageStore is required")
	}
	if subs == nil {
		panic("entitlement: SubscriptionSource is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.FreeQuota <= 0 {
		cfg.FreeQuota = DefaultFreeQuota
	}
	return &service{
		usage: usage,
		subs:  subs,
		cfg:   cfg,
		log:   log,
	}
}

func (s *service) CheckEntitlement(ctx context.Context, userID uuid.UUID) (Decision, error) {
	if userID == uuid.Nil {
		return Decision{}, ErrMissingUserID
	}

	sub, err := s.activeSubscription(ctx, userID)
	if err != nil {
		return s.storeFailureDecision(ctx, userID, err)
	}
	if sub != nil {
		// An active subscription always grants access; the free counter is
		// not consulted for subscribers.
		return Decision{Allowed: true, Reason: ReasonActiveSubscription}, nil
	}

	rec, err := s.usage.Ensure(ctx, userID, s.cfg.FreeQuota)
	if err != nil {
		return s.storeFailureDecision(ctx, userID, err)
	}

	if rec.FreeRemaining > 0 {
		return Decision{
			Allowed:        true,
			Reason:         ReasonFreeQuota,
			RemainingAfter: rec.FreeRemaining,
		}, nil
	}

	return Decision{Allowed: false, Reason: ReasonQuotaExhausted}, nil
}

func (s *service) RecordGeneration(ctx context.Context, userID uuid.UUID) (UsageRecord, error) {
	if userID == uuid.Nil {
		return UsageRecord{}, ErrMissingUserID
	}

	// Re-fetch the subscription rather than trusting an earlier check: the
	// subscription may have changed between check and generation, and the
	// charge target must match the state at recording time.
	sub, err := s.activeSubscription(ctx, userID)
	if err != nil {
		return UsageRecord{}, errors.Join(ErrStoreUnavailable, err)
	}

	chargeFree := sub == nil
	rec, err := s.usage.Apply(ctx, userID, s.cfg.FreeQuota, chargeFree)
	if err != nil {
		return UsageRecord{}, errors.Join(ErrStoreUnavailable, err)
	}
	return *rec, nil
}

func (s *service) Usage(ctx context.Context, userID uuid.UUID) (UsageRecord, error) {
	if userID == uuid.Nil {
		return UsageRecord{}, ErrMissingUserID
	}

	rec, err := s.usage.Ensure(ctx, userID, s.cfg.FreeQuota)
	if err != nil {
		return UsageRecord{}, errors.Join(ErrStoreUnavailable, err)
	}
	return *rec, nil
}

// activeSubscription resolves the user's active subscription, tolerating the
// store's lack of a uniqueness guarantee. With more than one active row the
// record with the latest period end wins; that ambiguity indicates an
// upstream data-integrity problem, so it is logged.
func (s *service) activeSubscription(ctx context.Context, userID uuid.UUID) (*subscription.Subscription, error) {
	subs, err := s.subs.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch len(subs) {
	case 0:
		return nil, nil
	case 1:
		return &subs[0], nil
	}

	latest := subscription.Latest(subs)
	s.log.WarnContext(ctx, "multiple active subscriptions for user",
		"user_id", userID,
		"count", len(subs),
		"chosen_provider_sub_id", latest.ProviderSubID,
	)
	return &latest, nil
}

// storeFailureDecision applies the fail-open policy for entitlement checks.
// When enabled, an unreachable store yields the permissive default of a full
// free quota instead of a denial.
func (s *service) storeFailureDecision(ctx context.Context, userID uuid.UUID, err error) (Decision, error) {
	if !s.cfg.FailOpenOnStoreError {
		return Decision{}, errors.Join(ErrStoreUnavailable, err)
	}
	s.log.WarnContext(ctx, "entitlement store unavailable, failing open",
		"user_id", userID,
		"error", err,
	)
	return Decision{
		Allowed:        true,
		Reason:         ReasonFreeQuota,
		RemainingAfter: s.cfg.FreeQuota,
	}, nil
}
