package handlers

import (
	"context"
	"time"

	"github.com/finkan/finkan-api/internal/models"
	"github.com/finkan/finkan-api/internal/oauth"
	"github.com/finkan/finkan-api/internal/services"
	"github.com/google/uuid"
)

// The handler layer depends on narrow interfaces rather than the concrete
// services so tests can substitute mocks.

type ProfileStore interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, fullName string) (*models.Profile, error)
}

type SessionStore interface {
	Replace(ctx context.Context, profileID uuid.UUID, accessToken, refreshToken string, expiresAt time.Time) error
	DeleteForProfile(ctx context.Context, profileID uuid.UUID) error
}

type TokenService interface {
	GenerateSessionToken(profileID uuid.UUID, email string) (string, error)
	ValidateSessionToken(token string) (*services.Claims, error)
	SessionExpiry() time.Duration
}

type WorkspaceStore interface {
	Create(ctx context.Context, name string, icon, description *string, creatorID uuid.UUID, creatorEmail string) (*models.Workspace, error)
	GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error)
	GetProfileWorkspaces(ctx context.Context, profileID uuid.UUID) ([]models.Workspace, []string, error)
	Update(ctx context.Context, workspaceID uuid.UUID, name, icon, description *string) (*models.Workspace, error)
	Delete(ctx context.Context, workspaceID uuid.UUID) error
	IsMember(ctx context.Context, workspaceID, profileID uuid.UUID) (bool, error)
	GetMemberRole(ctx context.Context, workspaceID, profileID uuid.UUID) (string, error)
	GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error)
	AddMemberByEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*models.WorkspaceMember, error)
	WorkspaceIDForProject(ctx context.Context, projectID uuid.UUID) (uuid.UUID, error)
	WorkspaceIDForColumn(ctx context.Context, columnID uuid.UUID) (uuid.UUID, error)
	WorkspaceIDForTask(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error)
}

type ProjectStore interface {
	Create(ctx context.Context, workspaceID uuid.UUID, name string, description *string, createdBy uuid.UUID) (*models.Project, error)
	GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Project, error)
	Update(ctx context.Context, projectID uuid.UUID, name, description *string) (*models.Project, error)
	Archive(ctx context.Context, projectID uuid.UUID) error
}

type ColumnStore interface {
	GetByProject(ctx context.Context, projectID uuid.UUID) ([]models.Column, error)
	Create(ctx context.Context, projectID uuid.UUID, name string) (*models.Column, error)
	Rename(ctx context.Context, columnID uuid.UUID, name string) (*models.Column, error)
	Delete(ctx context.Context, columnID uuid.UUID) error
}

type TaskStore interface {
	GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	GetByColumn(ctx context.Context, columnID uuid.UUID) ([]models.Task, error)
	Create(ctx context.Context, columnID, createdBy uuid.UUID, params services.CreateTaskParams) (*models.Task, error)
	Update(ctx context.Context, taskID uuid.UUID, params services.UpdateTaskParams) (*models.Task, error)
	Move(ctx context.Context, taskID, destColumnID uuid.UUID) (*models.Task, error)
	Delete(ctx context.Context, taskID uuid.UUID) error
}
