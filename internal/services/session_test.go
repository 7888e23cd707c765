package services

import (
	"context"
	"testing"
	"time"

	"github.com/finkan/finkan-api/internal/database"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionService(t *testing.T) (*SessionService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewSessionService(db), mock
}

func TestSessionService_Replace(t *testing.T) {
	svc, mock := setupSessionService(t)
	ctx := context.Background()
	profileID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM auth_sessions WHERE profile_id = \$1`).
		WithArgs(profileID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`INSERT INTO auth_sessions`).
		WithArgs(profileID, "access-token", pgxmock.AnyArg(), expiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := svc.Replace(ctx, profileID, "access-token", "refresh-token", expiresAt)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionService_Replace_InsertFailureRollsBack(t *testing.T) {
	svc, mock := setupSessionService(t)
	ctx := context.Background()
	profileID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM auth_sessions WHERE profile_id = \$1`).
		WithArgs(profileID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO auth_sessions`).
		WithArgs(profileID, "access-token", pgxmock.AnyArg(), expiresAt).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := svc.Replace(ctx, profileID, "access-token", "", expiresAt)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionService_DeleteForProfile(t *testing.T) {
	svc, mock := setupSessionService(t)
	ctx := context.Background()
	profileID := uuid.New()

	mock.ExpectExec(`DELETE FROM auth_sessions WHERE profile_id = \$1`).
		WithArgs(profileID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.DeleteForProfile(ctx, profileID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionService_CleanupExpired(t *testing.T) {
	svc, mock := setupSessionService(t)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM auth_sessions WHERE expires_at < NOW\(\)`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	err := svc.CleanupExpired(ctx)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
