package ratelimit

import "errors"

var (
	ErrKeyRequired     = errors.New("key is required")
	ErrStoreRequired   = errors.New("store is required")
	ErrInvalidLimit    = errors.New("invalid limit")
	ErrInvalidInterval = errors.New("invalid interval")
)
