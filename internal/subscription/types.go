package subscription

// PlanType enumerates the sellable plans.
type PlanType string

const (
	PlanBasic   PlanType = "basic"
	PlanPremium PlanType = "premium"
)

// Valid reports whether the plan type is one of the sellable plans.
func (p PlanType) Valid() bool {
	return p == PlanBasic || p == PlanPremium
}

// Status represents the current state of a subscription record.
type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
)

// BillingInterval represents the billing frequency for a plan.
type BillingInterval string

const (
	BillingIntervalMonthly BillingInterval = "monthly"
	BillingIntervalAnnual  BillingInterval = "annual"
)

// Money represents a monetary amount in the smallest currency unit.
// For example, $9.99 USD would be Amount: 999, Currency: "USD".
type Money struct {
	Amount   int64  `yaml:"amount"`   // Amount in smallest currency unit (cents for USD)
	Currency string `yaml:"currency"` // ISO 4217 currency code
}
