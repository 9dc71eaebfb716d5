package meme

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service is the public interface for meme artifact handling.
type Service interface {
	// SaveArtifact records a completed generation. A persistence failure is
	// logged and swallowed: the caller still holds the rendered image, only
	// the history listing suffers.
	SaveArtifact(ctx context.Context, userID uuid.UUID, imageURL, topText, bottomText string) *Meme

	// ListByUser returns the user's meme history, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Meme, error)
}

type service struct {
	store Store
	log   *slog.Logger
}

// NewService creates the meme artifact service.
// Panics if the store is nil to fail fast during initialization.
func NewService(store Store, log *slog.Logger) Service {
	if store == nil {
		panic("meme: Store is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{store: store, log: log}
}

func (s *service) SaveArtifact(ctx context.Context, userID uuid.UUID, imageURL, topText, bottomText string) *Meme {
	m := &Meme{
		ID:         uuid.New(),
		UserID:     userID,
		ImageURL:   imageURL,
		TopText:    topText,
		BottomText: bottomText,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, m); err != nil {
		s.log.ErrorContext(ctx, "failed to persist meme artifact",
			"user_id", userID,
			"image_url", imageURL,
			"error", err,
		)
		return nil
	}
	return m
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Meme, error) {
	return s.store.ListByUser(ctx, userID)
}
