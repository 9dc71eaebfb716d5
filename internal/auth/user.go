package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. PasswordHash never leaves this package.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	IsAdmin      bool
	CreatedAt    time.Time
}

// Identity is the resolved caller of a request.
type Identity struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}
