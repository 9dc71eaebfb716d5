package subscription_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memeforge/memeforge/internal/subscription"
)

func writeCatalogFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("valid catalog", func(t *testing.T) {
		t.Parallel()

		path := writeCatalogFile(t, `
plans:
  - type: basic
    name: Basic
    price_id: pri_basic_monthly
    price: {amount: 499, currency: USD}
    interval: monthly
  - type: premium
    name: Premium
    price_id: pri_premium_monthly
    price: {amount: 999, currency: USD}
    interval: monthly
`)

		catalog, err := subscription.LoadCatalog(path)
		require.NoError(t, err)
		require.Len(t, catalog, 2)

		basic, err := catalog.Plan(subscription.PlanBasic)
		require.NoError(t, err)
		assert.Equal(t, "pri_basic_monthly", basic.PriceID)
		assert.Equal(t, int64(499), basic.Price.Amount)

		premium, err := catalog.ByPriceID("pri_premium_monthly")
		require.NoError(t, err)
		assert.Equal(t, subscription.PlanPremium, premium.Type)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, subscription.ErrFailedToLoadCatalog)
	})

	t.Run("unknown plan type", func(t *testing.T) {
		t.Parallel()

		path := writeCatalogFile(t, `
plans:
  - type: platinum
    name: Platinum
    price_id: pri_platinum
`)
		_, err := subscription.LoadCatalog(path)
		assert.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("duplicate price IDs", func(t *testing.T) {
		t.Parallel()

		path := writeCatalogFile(t, `
plans:
  - type: basic
    name: Basic
    price_id: pri_shared
  - type: premium
    name: Premium
    price_id: pri_shared
`)
		_, err := subscription.LoadCatalog(path)
		assert.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("empty catalog", func(t *testing.T) {
		t.Parallel()

		path := writeCatalogFile(t, "plans: []\n")
		_, err := subscription.LoadCatalog(path)
		assert.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("unknown price ID lookup", func(t *testing.T) {
		t.Parallel()

		path := writeCatalogFile(t, `
plans:
  - type: basic
    name: Basic
    price_id: pri_basic
`)
		catalog, err := subscription.LoadCatalog(path)
		require.NoError(t, err)

		_, err = catalog.ByPriceID("pri_unknown")
		assert.ErrorIs(t, err, subscription.ErrPlanNotFound)
	})
}
