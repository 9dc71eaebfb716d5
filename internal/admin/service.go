// Package admin exposes read-only listings over users, usage, subscriptions
// and memes for the admin dashboard, plus meme removal. Access control is
// enforced at the HTTP layer via the admin token claim.
package admin

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/memeforge/memeforge/internal/auth"
	"github.com/memeforge/memeforge/internal/entitlement"
	"github.com/memeforge/memeforge/internal/meme"
	"github.com/memeforge/memeforge/internal/subscription"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// UsageLister is the read side of the usage store the dashboard consumes.
type UsageLister interface {
	List(ctx context.Context, limit, offset int) ([]entitlement.UsageRecord, error)
}

// Service provides the admin dashboard operations.
type Service interface {
	ListUsers(ctx context.Context, limit, offset int) ([]auth.User, error)
	ListUsage(ctx context.Context, limit, offset int) ([]entitlement.UsageRecord, error)
	ListSubscriptions(ctx context.Context, limit, offset int) ([]subscription.Subscription, error)
	ListMemes(ctx context.Context, limit, offset int) ([]meme.Meme, error)
	DeleteMeme(ctx context.Context, id uuid.UUID) error
}

type service struct {
	users auth.Store
	usage UsageLister
	subs  subscription.Store
	memes meme.Store
	log   *slog.Logger
}

// NewService creates the admin service. Panics if any dependency is nil.
func NewService(users auth.Store, usage UsageLister, subs subscription.Store, memes meme.Store, log *slog.Logger) Service {
	if users == nil {
		panic("admin.NewService: users store is required")
	}
	if usage == nil {
		panic("admin.NewService: usage lister is required")
	}
	if subs == nil {
		panic("admin.NewService: subscriptions store is required")
	}
	if memes == nil {
		panic("admin.NewService: memes store is required")
	}
	if log == nil {
		panic("admin.NewService: logger is required")
	}

	return &service{users: users, usage: usage, subs: subs, memes: memes, log: log}
}

func (s *service) ListUsers(ctx context.Context, limit, offset int) ([]auth.User, error) {
	limit, offset = clampPage(limit, offset)
	return s.users.List(ctx, limit, offset)
}

func (s *service) ListUsage(ctx context.Context, limit, offset int) ([]entitlement.UsageRecord, error) {
	limit, offset = clampPage(limit, offset)
	return s.usage.List(ctx, limit, offset)
}

func (s *service) ListSubscriptions(ctx context.Context, limit, offset int) ([]subscription.Subscription, error) {
	limit, offset = clampPage(limit, offset)
	return s.subs.List(ctx, limit, offset)
}

func (s *service) ListMemes(ctx context.Context, limit, offset int) ([]meme.Meme, error) {
	limit, offset = clampPage(limit, offset)
	return s.memes.List(ctx, limit, offset)
}

func (s *service) DeleteMeme(ctx context.Context, id uuid.UUID) error {
	if err := s.memes.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "meme removed by admin", slog.String("meme_id", id.String()))
	return nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
