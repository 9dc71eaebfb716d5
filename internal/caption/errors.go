package caption

import "errors"

var (
	ErrMissingAPIKey    = errors.New("caption generator API key is required")
	ErrNoImage          = errors.New("no image provided")
	ErrGenerationFailed = errors.New("caption generation failed")
)
