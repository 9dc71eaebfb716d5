package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memeforge/memeforge/pkg/ratelimit"
)

func newLimiter(t *testing.T, limit int, window time.Duration) *ratelimit.SlidingWindow {
	t.Helper()
	store := ratelimit.NewMemoryStore()
	t.Cleanup(store.Close)

	sw, err := ratelimit.NewSlidingWindow(store, ratelimit.Config{Limit: limit, Window: window})
	require.NoError(t, err)
	return sw
}

func TestNewSlidingWindow(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	t.Cleanup(store.Close)

	tests := []struct {
		name    string
		store   ratelimit.Store
		cfg     ratelimit.Config
		wantErr error
	}{
		{"valid", store, ratelimit.Config{Limit: 10, Window: time.Minute}, nil},
		{"nil store", nil, ratelimit.Config{Limit: 10, Window: time.Minute}, ratelimit.ErrStoreRequired},
		{"zero limit", store, ratelimit.Config{Limit: 0, Window: time.Minute}, ratelimit.ErrInvalidLimit},
		{"zero window", store, ratelimit.Config{Limit: 10, Window: 0}, ratelimit.ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ratelimit.NewSlidingWindow(tt.store, tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSlidingWindow_Allow(t *testing.T) {
	t.Parallel()

	t.Run("allows up to limit then denies", func(t *testing.T) {
		t.Parallel()

		sw := newLimiter(t, 3, time.Minute)
		ctx := context.Background()

		for i := range 3 {
			result, err := sw.Allow(ctx, "user-1")
			require.NoError(t, err)
			assert.True(t, result.Allowed, "request %d should be allowed", i+1)
			assert.Equal(t, 3-(i+1), result.Remaining)
		}

		result, err := sw.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, 0, result.Remaining)
		assert.Positive(t, result.RetryAfter())
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()

		sw := newLimiter(t, 1, time.Minute)
		ctx := context.Background()

		first, err := sw.Allow(ctx, "user-a")
		require.NoError(t, err)
		assert.True(t, first.Allowed)

		second, err := sw.Allow(ctx, "user-b")
		require.NoError(t, err)
		assert.True(t, second.Allowed)
	})

	t.Run("window slides", func(t *testing.T) {
		t.Parallel()

		sw := newLimiter(t, 1, 50*time.Millisecond)
		ctx := context.Background()

		first, err := sw.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, first.Allowed)

		denied, err := sw.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.False(t, denied.Allowed)

		time.Sleep(60 * time.Millisecond)

		again, err := sw.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, again.Allowed)
	})

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()

		sw := newLimiter(t, 1, time.Minute)
		_, err := sw.Allow(context.Background(), "")
		assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)
	})

	t.Run("concurrent requests never exceed limit", func(t *testing.T) {
		t.Parallel()

		sw := newLimiter(t, 10, time.Minute)
		ctx := context.Background()

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0

		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := sw.Allow(ctx, "shared")
				require.NoError(t, err)
				if result.Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, allowed)
	})
}

func TestSlidingWindow_Status(t *testing.T) {
	t.Parallel()

	sw := newLimiter(t, 2, time.Minute)
	ctx := context.Background()

	_, err := sw.Allow(ctx, "user-1")
	require.NoError(t, err)

	status, err := sw.Status(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, status.Allowed)
	assert.Equal(t, 1, status.Remaining)

	// Status must not consume a slot.
	again, err := sw.Status(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Remaining)
}

func TestSlidingWindow_Reset(t *testing.T) {
	t.Parallel()

	sw := newLimiter(t, 1, time.Minute)
	ctx := context.Background()

	_, err := sw.Allow(ctx, "user-1")
	require.NoError(t, err)

	denied, err := sw.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, denied.Allowed)

	require.NoError(t, sw.Reset(ctx, "user-1"))

	result, err := sw.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}
