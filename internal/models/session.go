package models

import (
	"time"

	"github.com/google/uuid"
)

// Session stores the identity provider's tokens for a signed-in profile.
type Session struct {
	ID           uuid.UUID `json:"id"`
	ProfileID    uuid.UUID `json:"profile_id"`
	AccessToken  string    `json:"-"`
	RefreshToken *string   `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
