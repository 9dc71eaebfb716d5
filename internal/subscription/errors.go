package subscription

import "errors"

var (
	ErrNotFound        = errors.New("subscription not found")
	ErrInvalidPlanType = errors.New("invalid subscription plan type")

	ErrFailedToLoadCatalog      = errors.New("failed to load plan catalog")
	ErrInvalidPlanConfiguration = errors.New("invalid plan configuration")
	ErrPlanNotFound             = errors.New("plan not found in catalog")
)
