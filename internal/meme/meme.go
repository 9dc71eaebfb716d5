// Package meme persists generated memes so users can revisit and re-download
// them. Saving is a pure append; by the time a record is written the rendered
// image is already in the user's hands, so persistence failure degrades the
// history view rather than the generation flow.
package meme

import (
	"time"

	"github.com/google/uuid"
)

// Meme is the persisted record of a completed generation.
type Meme struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	ImageURL   string    `json:"image_url"`
	TopText    string    `json:"top_text"`
	BottomText string    `json:"bottom_text"`
	CreatedAt  time.Time `json:"created_at"`
}
