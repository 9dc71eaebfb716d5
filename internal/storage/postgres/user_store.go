package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memeforge/memeforge/internal/auth"
	"github.com/memeforge/memeforge/pkg/pg"
)

// UserStore persists accounts in the users table.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a user store backed by pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	if pool == nil {
		panic("postgres.NewUserStore: pool is required")
	}
	return &UserStore{pool: pool}
}

const userColumns = `id, email, password_hash, is_admin, created_at`

// Create inserts a new user. The unique index on email surfaces duplicates
// as ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, user *auth.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.PasswordHash, user.IsAdmin,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// ByEmail retrieves a user by email.
func (s *UserStore) ByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)
	return scanUser(row, "user by email")
}

// ByID retrieves a user by ID.
func (s *UserStore) ByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row, "user by id")
}

// List returns users ordered by registration time descending.
func (s *UserStore) List(ctx context.Context, limit, offset int) ([]auth.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		var u auth.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row rowScanner, op string) (*auth.User, error) {
	var u auth.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
