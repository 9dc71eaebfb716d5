package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleConfig holds configuration for the Paddle billing provider.
type PaddleConfig struct {
	APIKey        string `env:"PADDLE_API_KEY,required"`
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET,required"`
	Environment   string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
}

// PaddleProvider implements Provider for Paddle.
type PaddleProvider struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
}

// NewPaddleProvider creates a Paddle-backed billing provider.
func NewPaddleProvider(cfg PaddleConfig) (*PaddleProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	var client *paddle.SDK
	var err error
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEnvironment, cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	return &PaddleProvider{
		client:   client,
		verifier: paddle.NewWebhookVerifier(cfg.WebhookSecret),
	}, nil
}

// CreateCheckoutLink creates a hosted checkout transaction in Paddle.
// The user ID rides along in transaction custom data so webhook events can be
// attributed back to the user without a provider-side customer mapping.
func (p *PaddleProvider) CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error) {
	if req.PriceID == "" {
		return nil, errors.New("price ID is required")
	}
	if req.UserID == "" {
		return nil, errors.New("user ID is required")
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.PriceID,
		Quantity: 1,
	})

	txReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"user_id": req.UserID,
		},
	}
	if req.Email != "" {
		txReq.CustomData["email"] = req.Email
	}
	if req.SuccessURL != "" {
		txReq.Checkout = &paddle.TransactionCheckout{
			URL: paddle.PtrTo(req.SuccessURL),
		}
	}

	tx, err := p.client.TransactionsClient.CreateTransaction(ctx, txReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle transaction: %w", err)
	}

	if tx.Checkout == nil || tx.Checkout.URL == nil || *tx.Checkout.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &CheckoutLink{
		URL:       *tx.Checkout.URL,
		SessionID: tx.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour), // Paddle checkout links expire in 24 hours
	}, nil
}

// ParseWebhook validates the Paddle-Signature header and normalizes the
// payload into a WebhookEvent.
func (p *PaddleProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	// The Paddle verifier operates on an http.Request, so reconstruct one
	// around the raw payload.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Paddle-Signature", signature)

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return nil, errors.Join(ErrWebhookVerificationFailed, err)
	}
	if !valid {
		return nil, ErrWebhookVerificationFailed
	}

	var paddleEvent struct {
		EventID   string         `json:"event_id"`
		EventType string         `json:"event_type"`
		Data      map[string]any `json:"data"`
	}
	if err := json.Unmarshal(payload, &paddleEvent); err != nil {
		return nil, errors.Join(ErrMalformedWebhookPayload, err)
	}

	event := &WebhookEvent{
		Type:          mapPaddleEventType(paddleEvent.EventType),
		ProviderEvent: paddleEvent.EventType,
		Raw:           paddleEvent.Data,
	}

	data := paddleEvent.Data
	if id, ok := data["id"].(string); ok {
		event.SubscriptionID = id
	}
	// Transactions carry the subscription they belong to in a separate field.
	if subID, ok := data["subscription_id"].(string); ok && subID != "" {
		event.SubscriptionID = subID
	}
	if status, ok := data["status"].(string); ok {
		event.Status = status
	}
	if customerID, ok := data["customer_id"].(string); ok {
		event.CustomerID = customerID
	}
	if customData, ok := data["custom_data"].(map[string]any); ok {
		if userID, ok := customData["user_id"].(string); ok {
			event.UserID = userID
		}
	}
	event.PriceID = extractPaddlePriceID(data)
	event.PeriodEnd = extractPaddlePeriodEnd(data)

	return event, nil
}

// extractPaddlePriceID digs the price ID out of the first line item.
// Subscription payloads nest it under items[0].price.id, transaction payloads
// flatten it to items[0].price_id.
func extractPaddlePriceID(data map[string]any) string {
	items, ok := data["items"].([]any)
	if !ok || len(items) == 0 {
		return ""
	}
	item, ok := items[0].(map[string]any)
	if !ok {
		return ""
	}
	if price, ok := item["price"].(map[string]any); ok {
		if id, ok := price["id"].(string); ok {
			return id
		}
	}
	if id, ok := item["price_id"].(string); ok {
		return id
	}
	return ""
}

func extractPaddlePeriodEnd(data map[string]any) *time.Time {
	period, ok := data["current_billing_period"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := period["ends_at"].(string)
	if !ok {
		return nil
	}
	endsAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &endsAt
}

func mapPaddleEventType(providerEvent string) EventType {
	switch providerEvent {
	case "subscription.created", "subscription.activated":
		return EventSubscriptionCreated
	case "subscription.updated", "subscription.resumed", "subscription.trialing":
		return EventSubscriptionUpdated
	case "subscription.canceled":
		return EventSubscriptionCanceled
	case "subscription.past_due":
		return EventPaymentFailed
	case "transaction.completed", "transaction.paid":
		return EventPaymentSucceeded
	case "transaction.payment_failed":
		return EventPaymentFailed
	default:
		return EventUnknown
	}
}
