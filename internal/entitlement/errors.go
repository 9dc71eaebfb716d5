package entitlement

import "errors"

var (
	ErrMissingUserID    = errors.New("user id is required")
	ErrUsageNotFound    = errors.New("usage record not found")
	ErrStoreUnavailable = errors.New("entitlement store unavailable")
)
