package billing

import "errors"

var (
	ErrMissingAPIKey             = errors.New("billing provider API key is required")
	ErrMissingWebhookSecret      = errors.New("billing provider webhook secret is required")
	ErrInvalidEnvironment        = errors.New("invalid billing provider environment")
	ErrWebhookVerificationFailed = errors.New("webhook signature verification failed")
	ErrMalformedWebhookPayload   = errors.New("malformed webhook payload")
	ErrNoCheckoutURL             = errors.New("no checkout URL returned from provider")
	ErrInvalidWebhookUserID      = errors.New("invalid user ID in webhook custom data")
	ErrUnknownPrice              = errors.New("webhook price does not match any catalog plan")
)
