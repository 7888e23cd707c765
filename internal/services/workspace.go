package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finkan/finkan-api/internal/database"
	"github.com/finkan/finkan-api/internal/metrics"
	"github.com/finkan/finkan-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WorkspaceService struct {
	db *database.DB
}

func NewWorkspaceService(db *database.DB) *WorkspaceService {
	return &WorkspaceService{db: db}
}

// Create inserts the workspace and its owner membership in one transaction.
// The creator's profile row is created lazily first, so a caller whose profile
// was never materialized by the login flow can still create workspaces.
func (s *WorkspaceService) Create(ctx context.Context, name string, icon, description *string, creatorID uuid.UUID, creatorEmail string) (*models.Workspace, error) {
	defer metrics.TrackDBOperation("workspace_create")(time.Now())

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (id, email, auth_provider)
		VALUES ($1, $2, 'microsoft')
		ON CONFLICT (id) DO NOTHING
	`, creatorID, creatorEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	var workspace models.Workspace
	err = tx.QueryRow(ctx, `
		INSERT INTO workspaces (name, icon, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, icon, description, created_by, created_at, updated_at
	`, name, icon, description, creatorID).Scan(
		&workspace.ID, &workspace.Name, &workspace.Icon, &workspace.Description,
		&workspace.CreatedBy, &workspace.CreatedAt, &workspace.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, profile_id, role)
		VALUES ($1, $2, $3)
	`, workspace.ID, creatorID, models.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to add owner as member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &workspace, nil
}

func (s *WorkspaceService) GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error) {
	var workspace models.Workspace
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, icon, description, created_by, created_at, updated_at
		FROM workspaces WHERE id = $1
	`, workspaceID).Scan(
		&workspace.ID, &workspace.Name, &workspace.Icon, &workspace.Description,
		&workspace.CreatedBy, &workspace.CreatedAt, &workspace.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

// GetProfileWorkspaces lists the caller's workspaces together with the
// caller's role in each.
func (s *WorkspaceService) GetProfileWorkspaces(ctx context.Context, profileID uuid.UUID) ([]models.Workspace, []string, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT w.id, w.name, w.icon, w.description, w.created_by, w.created_at, w.updated_at, wm.role
		FROM workspaces w
		JOIN workspace_members wm ON w.id = wm.workspace_id
		WHERE wm.profile_id = $1
		ORDER BY w.created_at DESC
	`, profileID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var workspaces []models.Workspace
	var roles []string
	for rows.Next() {
		var w models.Workspace
		var role string
		if err := rows.Scan(&w.ID, &w.Name, &w.Icon, &w.Description, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt, &role); err != nil {
			return nil, nil, err
		}
		workspaces = append(workspaces, w)
		roles = append(roles, role)
	}
	return workspaces, roles, rows.Err()
}

func (s *WorkspaceService) Update(ctx context.Context, workspaceID uuid.UUID, name, icon, description *string) (*models.Workspace, error) {
	var workspace models.Workspace
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE workspaces
		SET name = COALESCE($1, name),
		    icon = COALESCE($2, icon),
		    description = COALESCE($3, description),
		    updated_at = NOW()
		WHERE id = $4
		RETURNING id, name, icon, description, created_by, created_at, updated_at
	`, name, icon, description, workspaceID).Scan(
		&workspace.ID, &workspace.Name, &workspace.Icon, &workspace.Description,
		&workspace.CreatedBy, &workspace.CreatedAt, &workspace.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

// Delete removes the workspace row; members, projects, columns and tasks go
// with it through the schema's cascading foreign keys.
func (s *WorkspaceService) Delete(ctx context.Context, workspaceID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, workspaceID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *WorkspaceService) IsMember(ctx context.Context, workspaceID, profileID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM workspace_members WHERE workspace_id = $1 AND profile_id = $2)
	`, workspaceID, profileID).Scan(&exists)
	return exists, err
}

// GetMemberRole returns the caller's role, or ErrNotFound when no membership
// row exists.
func (s *WorkspaceService) GetMemberRole(ctx context.Context, workspaceID, profileID uuid.UUID) (string, error) {
	var role string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT role FROM workspace_members WHERE workspace_id = $1 AND profile_id = $2
	`, workspaceID, profileID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

func (s *WorkspaceService) GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT wm.workspace_id, wm.profile_id, wm.role, wm.created_at,
		       p.id, p.email, p.full_name, p.avatar_url, p.auth_provider, p.created_at, p.updated_at
		FROM workspace_members wm
		JOIN profiles p ON wm.profile_id = p.id
		WHERE wm.workspace_id = $1
		ORDER BY wm.created_at
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.WorkspaceMember
	for rows.Next() {
		var member models.WorkspaceMember
		var profile models.Profile
		if err := rows.Scan(
			&member.WorkspaceID, &member.ProfileID, &member.Role, &member.CreatedAt,
			&profile.ID, &profile.Email, &profile.FullName, &profile.AvatarURL,
			&profile.AuthProvider, &profile.CreatedAt, &profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		member.Profile = &profile
		members = append(members, member)
	}
	return members, rows.Err()
}

// AddMemberByEmail adds an existing profile to the workspace with the member
// role.
func (s *WorkspaceService) AddMemberByEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*models.WorkspaceMember, error) {
	var profileID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT id FROM profiles WHERE email = $1`, email).Scan(&profileID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	var member models.WorkspaceMember
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO workspace_members (workspace_id, profile_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (workspace_id, profile_id) DO NOTHING
		RETURNING workspace_id, profile_id, role, created_at
	`, workspaceID, profileID, models.RoleMember).Scan(
		&member.WorkspaceID, &member.ProfileID, &member.Role, &member.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAlreadyMember
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return &member, nil
}

// Ownership-chain resolvers. Each returns the owning workspace id for a
// resource, or ErrNotFound when the resource does not exist. Handlers call
// these before any membership probe so existence resolves first.

func (s *WorkspaceService) WorkspaceIDForProject(ctx context.Context, projectID uuid.UUID) (uuid.UUID, error) {
	var workspaceID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT workspace_id FROM projects WHERE id = $1
	`, projectID).Scan(&workspaceID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return workspaceID, nil
}

func (s *WorkspaceService) WorkspaceIDForColumn(ctx context.Context, columnID uuid.UUID) (uuid.UUID, error) {
	var workspaceID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT p.workspace_id
		FROM columns c
		JOIN projects p ON c.project_id = p.id
		WHERE c.id = $1
	`, columnID).Scan(&workspaceID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return workspaceID, nil
}

func (s *WorkspaceService) WorkspaceIDForTask(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	var workspaceID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT p.workspace_id
		FROM tasks t
		JOIN columns c ON t.column_id = c.id
		JOIN projects p ON c.project_id = p.id
		WHERE t.id = $1
	`, taskID).Scan(&workspaceID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return workspaceID, nil
}
