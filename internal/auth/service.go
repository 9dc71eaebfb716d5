package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Config holds auth configuration.
type Config struct {
	JWTSigningKey string        `env:"AUTH_JWT_SIGNING_KEY,required"`
	TokenTTL      time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
	BcryptCost    int           `env:"AUTH_BCRYPT_COST" envDefault:"12"`
}

const minPasswordLength = 8

// Service is the public interface for identity operations.
type Service interface {
	// Register creates a new account and returns it with a session token.
	Register(ctx context.Context, email, password string) (*User, string, error)

	// Login verifies credentials and returns the user with a session token.
	Login(ctx context.Context, email, password string) (*User, string, error)

	// Authenticate resolves a session token into an Identity.
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

type service struct {
	store  Store
	tokens *TokenIssuer
	cost   int
}

// NewService creates the auth service.
// Panics if required dependencies are nil to fail fast during initialization.
func NewService(store Store, cfg Config) (Service, error) {
	if store == nil {
		panic("auth: Store is required")
	}
	tokens, err := NewTokenIssuer([]byte(cfg.JWTSigningKey), cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &service{store: store, tokens: tokens, cost: cost}, nil
}

func (s *service) Register(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Indistinguishable from a wrong password so login attempts
			// cannot probe which emails are registered.
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *service) Authenticate(ctx context.Context, token string) (*Identity, error) {
	return s.tokens.Verify(token)
}
