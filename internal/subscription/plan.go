package subscription

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan describes a sellable plan and its billing provider mapping.
// PriceID must match the provider's price ID so checkout sessions and webhook
// events can be mapped back to a PlanType without extra lookups.
type Plan struct {
	Type     PlanType        `yaml:"type"`
	Name     string          `yaml:"name"`
	PriceID  string          `yaml:"price_id"`
	Price    Money           `yaml:"price"`
	Interval BillingInterval `yaml:"interval"`
}

// Catalog maps plan types to their configuration.
type Catalog map[PlanType]Plan

// LoadCatalog reads the plan catalog from a YAML file.
//
// Expected format:
//
//	plans:
//	  - type: basic
//	    name: Basic
//	    price_id: pri_basic_monthly
//	    price: {amount: 499, currency: USD}
//	    interval: monthly
func LoadCatalog(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	var file struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	catalog := make(Catalog, len(file.Plans))
	for _, plan := range file.Plans {
		catalog[plan.Type] = plan
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// ByPriceID finds the plan matching a provider price ID.
// Returns ErrPlanNotFound if no plan in the catalog uses the price.
func (c Catalog) ByPriceID(priceID string) (Plan, error) {
	for _, plan := range c {
		if plan.PriceID == priceID {
			return plan, nil
		}
	}
	return Plan{}, ErrPlanNotFound
}

// Plan returns the plan for a plan type, or ErrPlanNotFound.
func (c Catalog) Plan(planType PlanType) (Plan, error) {
	plan, ok := c[planType]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

// Validate ensures the catalog is internally consistent.
// Catches configuration errors early so a misconfigured catalog prevents
// startup rather than failing mid-checkout.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return errors.Join(ErrInvalidPlanConfiguration, errors.New("catalog is empty"))
	}

	seen := make(map[string]PlanType, len(c))
	for planType, plan := range c {
		if !planType.Valid() {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("unknown plan type %q", planType))
		}
		if plan.Type != planType {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan type mismatch: map key %s != plan.Type %s", planType, plan.Type))
		}
		if plan.PriceID == "" {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has no price ID", planType))
		}
		if other, dup := seen[plan.PriceID]; dup {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plans %s and %s share price ID %s", other, planType, plan.PriceID))
		}
		seen[plan.PriceID] = planType
		if plan.Price.Amount < 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has negative price: %d", planType, plan.Price.Amount))
		}
	}
	return nil
}
