package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finkan/finkan-api/internal/database"
	"github.com/finkan/finkan-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkspaceService(t *testing.T) (*WorkspaceService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewWorkspaceService(db), mock
}

func TestWorkspaceService_Create(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()
	creatorID := uuid.New()
	workspaceID := uuid.New()
	name := "My Workspace"
	email := "owner@example.com"
	now := time.Now()

	mock.ExpectBegin()

	mock.ExpectExec(`INSERT INTO profiles`).
		WithArgs(creatorID, email).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	rows := pgxmock.NewRows([]string{"id", "name", "icon", "description", "created_by", "created_at", "updated_at"}).
		AddRow(workspaceID, name, nil, nil, creatorID, now, now)
	mock.ExpectQuery(`INSERT INTO workspaces \(name, icon, description, created_by\)`).
		WithArgs(name, pgxmock.AnyArg(), pgxmock.AnyArg(), creatorID).
		WillReturnRows(rows)

	mock.ExpectExec(`INSERT INTO workspace_members`).
		WithArgs(workspaceID, creatorID, "owner").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectCommit()

	ws, err := svc.Create(ctx, name, nil, nil, creatorID, email)

	require.NoError(t, err)
	assert.Equal(t, workspaceID, ws.ID)
	assert.Equal(t, name, ws.Name)
	assert.Equal(t, creatorID, ws.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_Create_MembershipFailureRollsBack(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()
	creatorID := uuid.New()
	workspaceID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()

	mock.ExpectExec(`INSERT INTO profiles`).
		WithArgs(creatorID, "owner@example.com").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	rows := pgxmock.NewRows([]string{"id", "name", "icon", "description", "created_by", "created_at", "updated_at"}).
		AddRow(workspaceID, "Doomed", nil, nil, creatorID, now, now)
	mock.ExpectQuery(`INSERT INTO workspaces`).
		WithArgs("Doomed", pgxmock.AnyArg(), pgxmock.AnyArg(), creatorID).
		WillReturnRows(rows)

	mock.ExpectExec(`INSERT INTO workspace_members`).
		WithArgs(workspaceID, creatorID, "owner").
		WillReturnError(errors.New("connection reset"))

	mock.ExpectRollback()

	_, err := svc.Create(ctx, "Doomed", nil, nil, creatorID, "owner@example.com")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()
	workspaceID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM workspaces WHERE id`).
		WithArgs(workspaceID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(ctx, workspaceID)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_GetProfileWorkspaces(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()
	profileID := uuid.New()
	ws1ID := uuid.New()
	ws2ID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "name", "icon", "description", "created_by", "created_at", "updated_at", "role"}).
		AddRow(ws1ID, "Workspace 1", nil, nil, profileID, now, now, "owner").
		AddRow(ws2ID, "Workspace 2", nil, nil, uuid.New(), now, now, "member")

	mock.ExpectQuery(`SELECT .+ FROM workspaces w JOIN workspace_members`).
		WithArgs(profileID).
		WillReturnRows(rows)

	workspaces, roles, err := svc.GetProfileWorkspaces(ctx, profileID)

	require.NoError(t, err)
	assert.Len(t, workspaces, 2)
	require.Len(t, roles, 2)
	assert.Equal(t, "owner", roles[0])
	assert.Equal(t, "member", roles[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_Update(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()
	workspaceID := uuid.New()
	creatorID := uuid.New()
	newName := "Updated Workspace"
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "name", "icon", "description", "created_by", "created_at", "updated_at"}).
		AddRow(workspaceID, newName, nil, nil, creatorID, now, now)

	mock.ExpectQuery(`UPDATE workspaces`).
		WithArgs(&newName, pgxmock.AnyArg(), pgxmock.AnyArg(), workspaceID).
		WillReturnRows(rows)

	ws, err := svc.Update(ctx, workspaceID, &newName, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, newName, ws.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_Delete(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()
	workspaceID := uuid.New()

	mock.ExpectExec(`DELETE FROM workspaces WHERE id`).
		WithArgs(workspaceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.Delete(ctx, workspaceID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_Delete_NotFound(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()
	workspaceID := uuid.New()

	mock.ExpectExec(`DELETE FROM workspaces WHERE id`).
		WithArgs(workspaceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(ctx, workspaceID)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_IsMember(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()
	workspaceID := uuid.New()
	profileID := uuid.New()

	rows := pgxmock.NewRows([]string{"exists"}).AddRow(true)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(workspaceID, profileID).
		WillReturnRows(rows)

	isMember, err := svc.IsMember(ctx, workspaceID, profileID)

	require.NoError(t, err)
	assert.True(t, isMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_GetMemberRole_NotFound(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT role FROM workspace_members`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetMemberRole(ctx, uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_AddMemberByEmail(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()
	workspaceID := uuid.New()
	profileID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT id FROM profiles WHERE email`).
		WithArgs("new@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(profileID))

	rows := pgxmock.NewRows([]string{"workspace_id", "profile_id", "role", "created_at"}).
		AddRow(workspaceID, profileID, "member", now)
	mock.ExpectQuery(`INSERT INTO workspace_members`).
		WithArgs(workspaceID, profileID, models.RoleMember).
		WillReturnRows(rows)

	member, err := svc.AddMemberByEmail(ctx, workspaceID, "new@example.com")

	require.NoError(t, err)
	assert.Equal(t, profileID, member.ProfileID)
	assert.Equal(t, "member", member.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_AddMemberByEmail_UnknownProfile(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id FROM profiles WHERE email`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.AddMemberByEmail(ctx, uuid.New(), "ghost@example.com")

	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_AddMemberByEmail_AlreadyMember(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()
	workspaceID := uuid.New()
	profileID := uuid.New()

	mock.ExpectQuery(`SELECT id FROM profiles WHERE email`).
		WithArgs("member@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(profileID))

	mock.ExpectQuery(`INSERT INTO workspace_members`).
		WithArgs(workspaceID, profileID, models.RoleMember).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.AddMemberByEmail(ctx, workspaceID, "member@example.com")

	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_WorkspaceIDForTask(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()
	taskID := uuid.New()
	workspaceID := uuid.New()

	mock.ExpectQuery(`SELECT p.workspace_id\s+FROM tasks t`).
		WithArgs(taskID).
		WillReturnRows(pgxmock.NewRows([]string{"workspace_id"}).AddRow(workspaceID))

	got, err := svc.WorkspaceIDForTask(ctx, taskID)

	require.NoError(t, err)
	assert.Equal(t, workspaceID, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceService_WorkspaceIDForTask_NotFound(t *testing.T) {
	svc, mock := setupWorkspaceService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT p.workspace_id\s+FROM tasks t`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.WorkspaceIDForTask(ctx, uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
