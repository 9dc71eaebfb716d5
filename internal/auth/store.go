package auth

import (
	"context"

	"github.com/google/uuid"
)

// Store defines user persistence.
type Store interface {
	// Create inserts a new user. Returns ErrEmailTaken if the email is
	// already registered.
	Create(ctx context.Context, user *User) error

	// ByEmail retrieves a user by email. Returns ErrUserNotFound if absent.
	ByEmail(ctx context.Context, email string) (*User, error)

	// ByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	ByID(ctx context.Context, id uuid.UUID) (*User, error)

	// List returns users ordered by registration time descending, for admin
	// views.
	List(ctx context.Context, limit, offset int) ([]User, error)
}
