package entitlement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memeforge/memeforge/internal/entitlement"
	"github.com/memeforge/memeforge/internal/subscription"
)

// stubSubs returns canned active subscriptions or a canned error.
type stubSubs struct {
	subs []subscription.Subscription
	err  error
}

func (s *stubSubs) ActiveByUser(ctx context.Context, userID uuid.UUID) ([]subscription.Subscription, error) {
	return s.subs, s.err
}

// failingUsageStore fails every operation with the given error.
type failingUsageStore struct {
	err error
}

func (s *failingUsageStore) Get(ctx context.Context, userID uuid.UUID) (*entitlement.UsageRecord, error) {
	return nil, s.err
}

func (s *failingUsageStore) Ensure(ctx context.Context, userID uuid.UUID, quota int) (*entitlement.UsageRecord, error) {
	return nil, s.err
}

func (s *failingUsageStore) Apply(ctx context.Context, userID uuid.UUID, quota int, chargeFree bool) (*entitlement.UsageRecord, error) {
	return nil, s.err
}

func activeSub(userID uuid.UUID, providerSubID string, periodEnd time.Time) subscription.Subscription {
	return subscription.Subscription{
		ID:            uuid.New(),
		UserID:        userID,
		PlanType:      subscription.PlanBasic,
		Status:        subscription.StatusActive,
		ProviderSubID: providerSubID,
		PeriodEnd:     periodEnd,
	}
}

func TestCheckEntitlement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("new user gets full quota", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(entitlement.NewMemoryUsageStore(), &stubSubs{}, entitlement.Config{FreeQuota: 5}, nil)

		decision, err := svc.CheckEntitlement(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, entitlement.ReasonFreeQuota, decision.Reason)
		assert.Equal(t, 5, decision.RemainingAfter)
	})

	t.Run("lazy creation is idempotent", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(entitlement.NewMemoryUsageStore(), &stubSubs{}, entitlement.Config{FreeQuota: 5}, nil)
		userID := uuid.New()

		first, err := svc.CheckEntitlement(ctx, userID)
		require.NoError(t, err)
		second, err := svc.CheckEntitlement(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, first.RemainingAfter, second.RemainingAfter)
	})

	t.Run("active subscription bypasses quota", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		usage := entitlement.NewMemoryUsageStore()
		usage.Seed(entitlement.UsageRecord{UserID: userID, FreeRemaining: 0, TotalGenerated: 5})
		subs := &stubSubs{subs: []subscription.Subscription{
			activeSub(userID, "sub_1", time.Now().Add(24*time.Hour)),
		}}

		svc := entitlement.NewService(usage, subs, entitlement.Config{FreeQuota: 5}, nil)

		decision, err := svc.CheckEntitlement(ctx, userID)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, entitlement.ReasonActiveSubscription, decision.Reason)
	})

	t.Run("denied at zero quota", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		usage := entitlement.NewMemoryUsageStore()
		usage.Seed(entitlement.UsageRecord{UserID: userID, FreeRemaining: 0, TotalGenerated: 5})

		svc := entitlement.NewService(usage, &stubSubs{}, entitlement.Config{FreeQuota: 5}, nil)

		decision, err := svc.CheckEntitlement(ctx, userID)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, entitlement.ReasonQuotaExhausted, decision.Reason)
	})

	t.Run("missing user id", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(entitlement.NewMemoryUsageStore(), &stubSubs{}, entitlement.Config{}, nil)

		_, err := svc.CheckEntitlement(ctx, uuid.Nil)
		assert.ErrorIs(t, err, entitlement.ErrMissingUserID)
	})

	t.Run("store failure fails closed by default", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(
			&failingUsageStore{err: errors.New("connection refused")},
			&stubSubs{},
			entitlement.Config{FreeQuota: 5},
			nil,
		)

		_, err := svc.CheckEntitlement(ctx, uuid.New())
		assert.ErrorIs(t, err, entitlement.ErrStoreUnavailable)
	})

	t.Run("store failure fails open when configured", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(
			&failingUsageStore{err: errors.New("connection refused")},
			&stubSubs{},
			entitlement.Config{FreeQuota: 5, FailOpenOnStoreError: true},
			nil,
		)

		decision, err := svc.CheckEntitlement(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, entitlement.ReasonFreeQuota, decision.Reason)
		assert.Equal(t, 5, decision.RemainingAfter)
	})

	t.Run("subscription lookup failure fails open when configured", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(
			entitlement.NewMemoryUsageStore(),
			&stubSubs{err: errors.New("timeout")},
			entitlement.Config{FreeQuota: 5, FailOpenOnStoreError: true},
			nil,
		)

		decision, err := svc.CheckEntitlement(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("multiple active subscriptions tolerated", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		subs := &stubSubs{subs: []subscription.Subscription{
			activeSub(userID, "sub_old", time.Now().Add(24*time.Hour)),
			activeSub(userID, "sub_new", time.Now().Add(30*24*time.Hour)),
		}}

		svc := entitlement.NewService(entitlement.NewMemoryUsageStore(), subs, entitlement.Config{FreeQuota: 5}, nil)

		decision, err := svc.CheckEntitlement(ctx, userID)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, entitlement.ReasonActiveSubscription, decision.Reason)
	})
}

func TestRecordGeneration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("quota floor never goes negative", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		svc := entitlement.NewService(entitlement.NewMemoryUsageStore(), &stubSubs{}, entitlement.Config{FreeQuota: 3}, nil)

		for i := 1; i <= 5; i++ {
			rec, err := svc.RecordGeneration(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, i, rec.TotalGenerated)
			assert.Equal(t, max(0, 3-i), rec.FreeRemaining)
		}
	})

	t.Run("subscriber is never charged free quota", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		usage := entitlement.NewMemoryUsageStore()
		usage.Seed(entitlement.UsageRecord{UserID: userID, FreeRemaining: 2, TotalGenerated: 3})
		subs := &stubSubs{subs: []subscription.Subscription{
			activeSub(userID, "sub_1", time.Now().Add(24*time.Hour)),
		}}

		svc := entitlement.NewService(usage, subs, entitlement.Config{FreeQuota: 5}, nil)

		rec, err := svc.RecordGeneration(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, rec.FreeRemaining)
		assert.Equal(t, 4, rec.TotalGenerated)
	})

	t.Run("first generation without prior check creates record", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(entitlement.NewMemoryUsageStore(), &stubSubs{}, entitlement.Config{FreeQuota: 5}, nil)

		rec, err := svc.RecordGeneration(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, 1, rec.TotalGenerated)
		assert.Equal(t, 4, rec.FreeRemaining)
	})

	t.Run("subscriber first generation keeps full quota", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		subs := &stubSubs{subs: []subscription.Subscription{
			activeSub(userID, "sub_1", time.Now().Add(24*time.Hour)),
		}}
		svc := entitlement.NewService(entitlement.NewMemoryUsageStore(), subs, entitlement.Config{FreeQuota: 5}, nil)

		rec, err := svc.RecordGeneration(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, rec.TotalGenerated)
		assert.Equal(t, 5, rec.FreeRemaining)
	})

	t.Run("store failure is surfaced", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(
			&failingUsageStore{err: errors.New("connection refused")},
			&stubSubs{},
			entitlement.Config{FreeQuota: 5, FailOpenOnStoreError: true},
			nil,
		)

		// Fail-open applies to checks only; a write that cannot be recorded
		// is always an error.
		_, err := svc.RecordGeneration(ctx, uuid.New())
		assert.ErrorIs(t, err, entitlement.ErrStoreUnavailable)
	})

	t.Run("missing user id", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(entitlement.NewMemoryUsageStore(), &stubSubs{}, entitlement.Config{}, nil)

		_, err := svc.RecordGeneration(ctx, uuid.Nil)
		assert.ErrorIs(t, err, entitlement.ErrMissingUserID)
	})
}

func TestEntitlementScenarios(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("free user exhausts quota", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		svc := entitlement.NewService(entitlement.NewMemoryUsageStore(), &stubSubs{}, entitlement.Config{FreeQuota: 5}, nil)

		decision, err := svc.CheckEntitlement(ctx, userID)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
		assert.Equal(t, 5, decision.RemainingAfter)

		var rec entitlement.UsageRecord
		for range 5 {
			rec, err = svc.RecordGeneration(ctx, userID)
			require.NoError(t, err)
		}
		assert.Equal(t, 0, rec.FreeRemaining)
		assert.Equal(t, 5, rec.TotalGenerated)

		decision, err = svc.CheckEntitlement(ctx, userID)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, entitlement.ReasonQuotaExhausted, decision.Reason)

		// A call despite denial still floors at zero.
		rec, err = svc.RecordGeneration(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 0, rec.FreeRemaining)
		assert.Equal(t, 6, rec.TotalGenerated)
	})

	t.Run("subscriber with exhausted quota", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		usage := entitlement.NewMemoryUsageStore()
		usage.Seed(entitlement.UsageRecord{UserID: userID, FreeRemaining: 0, TotalGenerated: 5})
		subs := &stubSubs{subs: []subscription.Subscription{
			activeSub(userID, "sub_1", time.Now().Add(24*time.Hour)),
		}}
		svc := entitlement.NewService(usage, subs, entitlement.Config{FreeQuota: 5}, nil)

		decision, err := svc.CheckEntitlement(ctx, userID)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, entitlement.ReasonActiveSubscription, decision.Reason)

		rec, err := svc.RecordGeneration(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 0, rec.FreeRemaining)
		assert.Equal(t, 6, rec.TotalGenerated)
	})

	t.Run("cancellation falls back to free quota", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		usage := entitlement.NewMemoryUsageStore()
		usage.Seed(entitlement.UsageRecord{UserID: userID, FreeRemaining: 2, TotalGenerated: 7})
		subs := &stubSubs{subs: []subscription.Subscription{
			activeSub(userID, "sub_1", time.Now().Add(24*time.Hour)),
		}}
		svc := entitlement.NewService(usage, subs, entitlement.Config{FreeQuota: 5}, nil)

		decision, err := svc.CheckEntitlement(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, entitlement.ReasonActiveSubscription, decision.Reason)

		// Webhook relay cancels the subscription between the two checks.
		subs.subs = nil

		decision, err = svc.CheckEntitlement(ctx, userID)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, entitlement.ReasonFreeQuota, decision.Reason)
		assert.Equal(t, 2, decision.RemainingAfter)
	})
}

func TestUsage(t *testing.T) {
	t.Parallel()

	t.Run("lazily creates record with full quota", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(entitlement.NewMemoryUsageStore(), &stubSubs{}, entitlement.Config{FreeQuota: 5}, nil)

		rec, err := svc.Usage(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, 5, rec.FreeRemaining)
		assert.Equal(t, 0, rec.TotalGenerated)
	})

	t.Run("returns existing counters untouched", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		usage := entitlement.NewMemoryUsageStore()
		usage.Seed(entitlement.UsageRecord{UserID: userID, FreeRemaining: 2, TotalGenerated: 7})

		svc := entitlement.NewService(usage, &stubSubs{}, entitlement.Config{FreeQuota: 5}, nil)

		rec, err := svc.Usage(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, 2, rec.FreeRemaining)
		assert.Equal(t, 7, rec.TotalGenerated)
	})

	t.Run("missing user id", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(entitlement.NewMemoryUsageStore(), &stubSubs{}, entitlement.Config{FreeQuota: 5}, nil)

		_, err := svc.Usage(context.Background(), uuid.Nil)
		assert.ErrorIs(t, err, entitlement.ErrMissingUserID)
	})

	t.Run("store failure surfaces even with fail-open", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(
			&failingUsageStore{err: errors.New("timeout")},
			&stubSubs{},
			entitlement.Config{FreeQuota: 5, FailOpenOnStoreError: true},
			nil,
		)

		_, err := svc.Usage(context.Background(), uuid.New())
		assert.ErrorIs(t, err, entitlement.ErrStoreUnavailable)
	})
}
