package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memeforge/memeforge/internal/meme"
)

// MemeStore persists meme records in the memes table.
type MemeStore struct {
	pool *pgxpool.Pool
}

// NewMemeStore creates a meme store backed by pool.
func NewMemeStore(pool *pgxpool.Pool) *MemeStore {
	if pool == nil {
		panic("postgres.NewMemeStore: pool is required")
	}
	return &MemeStore{pool: pool}
}

const memeColumns = `id, user_id, image_url, top_text, bottom_text, created_at`

// Insert appends a meme record.
func (s *MemeStore) Insert(ctx context.Context, m *meme.Meme) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO memes (id, user_id, image_url, top_text, bottom_text)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.UserID, m.ImageURL, m.TopText, m.BottomText,
	)
	if err != nil {
		return fmt.Errorf("insert meme: %w", err)
	}
	return nil
}

// ListByUser returns the user's memes, newest first.
func (s *MemeStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]meme.Meme, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+memeColumns+` FROM memes WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list memes by user: %w", err)
	}
	defer rows.Close()

	return collectMemes(rows)
}

// List returns memes across all users, newest first.
func (s *MemeStore) List(ctx context.Context, limit, offset int) ([]meme.Meme, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+memeColumns+` FROM memes ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list memes: %w", err)
	}
	defer rows.Close()

	return collectMemes(rows)
}

// Delete removes a meme by ID.
func (s *MemeStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM memes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete meme: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return meme.ErrNotFound
	}
	return nil
}

func collectMemes(rows pgx.Rows) ([]meme.Meme, error) {
	var memes []meme.Meme
	for rows.Next() {
		var m meme.Meme
		if err := rows.Scan(&m.ID, &m.UserID, &m.ImageURL, &m.TopText, &m.BottomText, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan meme: %w", err)
		}
		memes = append(memes, m)
	}
	return memes, rows.Err()
}
