package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/memeforge/memeforge/internal/subscription"
)

// Config holds checkout redirect targets.
type Config struct {
	SuccessURL string `env:"BILLING_SUCCESS_URL,required"`
	CancelURL  string `env:"BILLING_CANCEL_URL,required"`
}

// Service is the public interface for billing operations.
type Service interface {
	// CreateCheckout creates a hosted checkout session for a plan.
	CreateCheckout(ctx context.Context, userID uuid.UUID, email string, planType subscription.PlanType) (*CheckoutLink, error)

	// HandleWebhook verifies and applies a billing provider event to the
	// subscription store.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type service struct {
	provider Provider
	store    subscription.Store
	catalog  subscription.Catalog
	cfg      Config
	log      *slog.Logger
}

// NewService creates the billing relay.
// Panics if required dependencies are nil to fail fast during initialization.
func NewService(provider Provider, store subscription.Store, catalog subscription.Catalog, cfg Config, log *slog.Logger) Service {
	if provider == nil {
		panic("billing: Provider is required")
	}
	if store == nil {
		panic("billing: subscription.Store is required")
	}
	if len(catalog) == 0 {
		panic("billing: plan catalog is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{
		provider: provider,
		store:    store,
		catalog:  catalog,
		cfg:      cfg,
		log:      log,
	}
}

func (s *service) CreateCheckout(ctx context.Context, userID uuid.UUID, email string, planType subscription.PlanType) (*CheckoutLink, error) {
	if !planType.Valid() {
		return nil, subscription.ErrInvalidPlanType
	}
	plan, err := s.catalog.Plan(planType)
	if err != nil {
		return nil, err
	}

	return s.provider.CreateCheckoutLink(ctx, CheckoutRequest{
		PriceID:    plan.PriceID,
		UserID:     userID.String(),
		Email:      email,
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
	})
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case EventSubscriptionCreated:
		return s.handleCreated(ctx, event)

	case EventSubscriptionUpdated:
		return s.updateStatus(ctx, event, mapProviderStatus(event.Status), event.PeriodEnd)

	case EventSubscriptionCanceled:
		return s.updateStatus(ctx, event, subscription.StatusCanceled, nil)

	case EventPaymentSucceeded:
		// A successful renewal payment reactivates and moves the period end.
		return s.updateStatus(ctx, event, subscription.StatusActive, event.PeriodEnd)

	case EventPaymentFailed:
		err := s.updateStatus(ctx, event, subscription.StatusPastDue, nil)
		if errors.Is(err, subscription.ErrNotFound) {
			// A failed first payment has no subscription row yet; nothing to
			// mark past due.
			s.log.InfoContext(ctx, "payment failed for unknown subscription",
				"provider_sub_id", event.SubscriptionID,
				"provider_event", event.ProviderEvent,
			)
			return nil
		}
		return err
	}

	s.log.DebugContext(ctx, "ignoring billing event",
		"provider_event", event.ProviderEvent,
	)
	return nil
}

func (s *service) handleCreated(ctx context.Context, event *WebhookEvent) error {
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return errors.Join(ErrInvalidWebhookUserID, err)
	}

	plan, err := s.catalog.ByPriceID(event.PriceID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownPrice, event.PriceID)
	}

	now := time.Now().UTC()
	sub := &subscription.Subscription{
		ID:                 uuid.New(),
		UserID:             userID,
		PlanType:           plan.Type,
		Status:             mapProviderStatus(event.Status),
		ProviderSubID:      event.SubscriptionID,
		ProviderCustomerID: event.CustomerID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if event.PeriodEnd != nil {
		sub.PeriodEnd = *event.PeriodEnd
	}

	if err := s.store.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	s.log.InfoContext(ctx, "subscription created",
		"user_id", userID,
		"plan", plan.Type,
		"provider_sub_id", event.SubscriptionID,
	)
	return nil
}

func (s *service) updateStatus(ctx context.Context, event *WebhookEvent, status subscription.Status, periodEnd *time.Time) error {
	if event.SubscriptionID == "" {
		return fmt.Errorf("%w: event %s carries no subscription ID", ErrMalformedWebhookPayload, event.ProviderEvent)
	}
	if err := s.store.UpdateStatus(ctx, event.SubscriptionID, status, periodEnd); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "subscription status updated",
		"provider_sub_id", event.SubscriptionID,
		"status", status,
	)
	return nil
}

// mapProviderStatus collapses provider status strings onto the three states
// the entitlement service understands. Anything that still grants access maps
// to active.
func mapProviderStatus(providerStatus string) subscription.Status {
	switch providerStatus {
	case "canceled":
		return subscription.StatusCanceled
	case "past_due":
		return subscription.StatusPastDue
	default:
		return subscription.StatusActive
	}
}
