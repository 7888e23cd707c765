package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/finkan/finkan-api/internal/database"
	"github.com/finkan/finkan-api/internal/models"
	"github.com/finkan/finkan-api/internal/oauth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `id, email, full_name, avatar_url, microsoft_id, auth_provider, created_at, updated_at`

type ProfileService struct {
	db *database.DB
}

func NewProfileService(db *database.DB) *ProfileService {
	return &ProfileService{db: db}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.AvatarURL,
		&p.MicrosoftID, &p.AuthProvider, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindOrCreateFromOAuth resolves the profile for an external identity in
// priority order: matching microsoft_id, then matching email (the external id
// is linked to it), then a freshly created profile.
func (s *ProfileService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error) {
	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE microsoft_id = $1
	`, info.ID))
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	profile, err = scanProfile(s.db.Pool.QueryRow(ctx, `
		UPDATE profiles
		SET microsoft_id = $1, auth_provider = $2, updated_at = NOW()
		WHERE email = $3
		RETURNING `+profileColumns+`
	`, info.ID, info.Provider, info.Email))
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to link profile: %w", err)
	}

	profile, err = scanProfile(s.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (email, full_name, avatar_url, microsoft_id, auth_provider)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+profileColumns+`
	`, info.Email, nullableString(info.Name), nullableString(info.AvatarURL), info.ID, info.Provider))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE email = $1
	`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, fullName string) (*models.Profile, error) {
	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		UPDATE profiles SET full_name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+profileColumns+`
	`, fullName, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
