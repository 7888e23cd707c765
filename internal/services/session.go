package services

import (
	"context"
	"fmt"
	"time"

	"github.com/finkan/finkan-api/internal/database"
	"github.com/google/uuid"
)

// SessionService persists the identity provider's tokens per profile. A login
// replaces any previous session row for that profile.
type SessionService struct {
	db *database.DB
}

func NewSessionService(db *database.DB) *SessionService {
	return &SessionService{db: db}
}

func (s *SessionService) Replace(ctx context.Context, profileID uuid.UUID, accessToken, refreshToken string, expiresAt time.Time) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM auth_sessions WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear previous sessions: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO auth_sessions (profile_id, access_token, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4)
	`, profileID, accessToken, nullableString(refreshToken), expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *SessionService) DeleteForProfile(ctx context.Context, profileID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM auth_sessions WHERE profile_id = $1`, profileID)
	return err
}

func (s *SessionService) CleanupExpired(ctx context.Context) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM auth_sessions WHERE expires_at < NOW()`)
	return err
}
