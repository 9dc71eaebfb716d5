package billing

import (
	"context"
	"time"
)

// Provider is the minimal payment vendor interface the relay needs.
// Hosted checkouts and signature-verified webhooks keep all card handling on
// the provider's side.
type Provider interface {
	// CreateCheckoutLink creates a hosted checkout session.
	CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error)

	// ParseWebhook validates the webhook signature and normalizes the
	// payload. Must reject payloads whose signature does not verify.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
}

// CheckoutRequest contains data needed to create a checkout session.
type CheckoutRequest struct {
	PriceID    string // provider's price identifier for the plan
	UserID     string // our user ID, carried through provider custom data
	Email      string // optional billing email
	SuccessURL string // redirect after successful payment
	CancelURL  string // redirect if the customer cancels
}

// CheckoutLink represents a hosted checkout session.
type CheckoutLink struct {
	URL       string    `json:"url"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EventType is the normalized billing event type. Each provider
// implementation maps its specific event names onto these.
type EventType string

const (
	EventSubscriptionCreated  EventType = "subscription_created"
	EventSubscriptionUpdated  EventType = "subscription_updated"
	EventSubscriptionCanceled EventType = "subscription_canceled"
	EventPaymentSucceeded     EventType = "payment_succeeded"
	EventPaymentFailed        EventType = "payment_failed"
	EventUnknown              EventType = "unknown"
)

// WebhookEvent is a normalized webhook event from the billing provider.
type WebhookEvent struct {
	Type           EventType
	ProviderEvent  string // original provider event name
	SubscriptionID string // provider's subscription ID
	CustomerID     string // provider's customer ID
	UserID         string // our user ID from custom data
	Status         string // provider's subscription status string
	PriceID        string // the price the customer subscribed to
	PeriodEnd      *time.Time
	Raw            map[string]any
}
