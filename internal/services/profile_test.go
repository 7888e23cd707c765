package services

import (
	"context"
	"testing"
	"time"

	"github.com/finkan/finkan-api/internal/database"
	"github.com/finkan/finkan-api/internal/oauth"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProfileService(t *testing.T) (*ProfileService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewProfileService(db), mock
}

func profileRows(profileID uuid.UUID, email string) *pgxmock.Rows {
	now := time.Now()
	microsoftID := "ms-" + profileID.String()
	return pgxmock.NewRows([]string{
		"id", "email", "full_name", "avatar_url", "microsoft_id", "auth_provider", "created_at", "updated_at",
	}).AddRow(profileID, email, nil, nil, &microsoftID, "microsoft", now, now)
}

func emptyProfileRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "email", "full_name", "avatar_url", "microsoft_id", "auth_provider", "created_at", "updated_at",
	})
}

func TestProfileService_FindOrCreateFromOAuth_ExistingIdentity(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()
	info := &oauth.UserInfo{ID: "ms-abc", Email: "ana@example.com", Provider: "microsoft"}

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE microsoft_id = \$1`).
		WithArgs(info.ID).
		WillReturnRows(profileRows(profileID, info.Email))

	profile, err := svc.FindOrCreateFromOAuth(ctx, info)

	require.NoError(t, err)
	assert.Equal(t, profileID, profile.ID)
	assert.Equal(t, info.Email, profile.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_FindOrCreateFromOAuth_LinksByEmail(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()
	info := &oauth.UserInfo{ID: "ms-abc", Email: "ana@example.com", Provider: "microsoft"}

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE microsoft_id = \$1`).
		WithArgs(info.ID).
		WillReturnRows(emptyProfileRows())
	mock.ExpectQuery(`UPDATE profiles`).
		WithArgs(info.ID, info.Provider, info.Email).
		WillReturnRows(profileRows(profileID, info.Email))

	profile, err := svc.FindOrCreateFromOAuth(ctx, info)

	require.NoError(t, err)
	assert.Equal(t, profileID, profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_FindOrCreateFromOAuth_CreatesProfile(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()
	info := &oauth.UserInfo{ID: "ms-abc", Email: "new@example.com", Name: "New User", Provider: "microsoft"}

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE microsoft_id = \$1`).
		WithArgs(info.ID).
		WillReturnRows(emptyProfileRows())
	mock.ExpectQuery(`UPDATE profiles`).
		WithArgs(info.ID, info.Provider, info.Email).
		WillReturnRows(emptyProfileRows())
	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs(info.Email, pgxmock.AnyArg(), pgxmock.AnyArg(), info.ID, info.Provider).
		WillReturnRows(profileRows(profileID, info.Email))

	profile, err := svc.FindOrCreateFromOAuth(ctx, info)

	require.NoError(t, err)
	assert.Equal(t, profileID, profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE id = \$1`).
		WithArgs(profileID).
		WillReturnRows(emptyProfileRows())

	_, err := svc.GetByID(ctx, profileID)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_GetByEmail(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE email = \$1`).
		WithArgs("ana@example.com").
		WillReturnRows(profileRows(profileID, "ana@example.com"))

	profile, err := svc.GetByEmail(ctx, "ana@example.com")

	require.NoError(t, err)
	assert.Equal(t, profileID, profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_Update(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()

	mock.ExpectQuery(`UPDATE profiles SET full_name = \$1`).
		WithArgs("Ana Petrovic", profileID).
		WillReturnRows(profileRows(profileID, "ana@example.com"))

	profile, err := svc.Update(ctx, profileID, "Ana Petrovic")

	require.NoError(t, err)
	assert.Equal(t, profileID, profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
