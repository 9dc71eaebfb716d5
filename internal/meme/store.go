package meme

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("meme not found")

// Store defines meme persistence.
type Store interface {
	// Insert appends a meme record.
	Insert(ctx context.Context, m *Meme) error

	// ListByUser returns the user's memes, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Meme, error)

	// List returns memes across all users, newest first, for admin views.
	List(ctx context.Context, limit, offset int) ([]Meme, error)

	// Delete removes a meme by ID. Returns ErrNotFound if no row matches.
	Delete(ctx context.Context, id uuid.UUID) error
}
