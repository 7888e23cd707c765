package testutil

import (
	"context"
	"time"

	"github.com/finkan/finkan-api/internal/models"
	"github.com/finkan/finkan-api/internal/oauth"
	"github.com/finkan/finkan-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProfileService mocks the ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, id uuid.UUID, fullName string) (*models.Profile, error) {
	args := m.Called(ctx, id, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// MockSessionService mocks the SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Replace(ctx context.Context, profileID uuid.UUID, accessToken, refreshToken string, expiresAt time.Time) error {
	args := m.Called(ctx, profileID, accessToken, refreshToken, expiresAt)
	return args.Error(0)
}

func (m *MockSessionService) DeleteForProfile(ctx context.Context, profileID uuid.UUID) error {
	args := m.Called(ctx, profileID)
	return args.Error(0)
}

// MockWorkspaceService mocks the WorkspaceService
type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) Create(ctx context.Context, name string, icon, description *string, creatorID uuid.UUID, creatorEmail string) (*models.Workspace, error) {
	args := m.Called(ctx, name, icon, description, creatorID, creatorEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetProfileWorkspaces(ctx context.Context, profileID uuid.UUID) ([]models.Workspace, []string, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]models.Workspace), args.Get(1).([]string), args.Error(2)
}

func (m *MockWorkspaceService) Update(ctx context.Context, workspaceID uuid.UUID, name, icon, description *string) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID, name, icon, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Delete(ctx context.Context, workspaceID uuid.UUID) error {
	args := m.Called(ctx, workspaceID)
	return args.Error(0)
}

func (m *MockWorkspaceService) IsMember(ctx context.Context, workspaceID, profileID uuid.UUID) (bool, error) {
	args := m.Called(ctx, workspaceID, profileID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkspaceService) GetMemberRole(ctx context.Context, workspaceID, profileID uuid.UUID) (string, error) {
	args := m.Called(ctx, workspaceID, profileID)
	return args.String(0), args.Error(1)
}

func (m *MockWorkspaceService) GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]models.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceService) AddMemberByEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*models.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceService) WorkspaceIDForProject(ctx context.Context, projectID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockWorkspaceService) WorkspaceIDForColumn(ctx context.Context, columnID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, columnID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockWorkspaceService) WorkspaceIDForTask(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockProjectService mocks the ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, workspaceID uuid.UUID, name string, description *string, createdBy uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, workspaceID, name, description, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Project, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, projectID uuid.UUID, name, description *string) (*models.Project, error) {
	args := m.Called(ctx, projectID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Archive(ctx context.Context, projectID uuid.UUID) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

// MockColumnService mocks the ColumnService
type MockColumnService struct {
	mock.Mock
}

func (m *MockColumnService) GetByProject(ctx context.Context, projectID uuid.UUID) ([]models.Column, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]models.Column), args.Error(1)
}

func (m *MockColumnService) Create(ctx context.Context, projectID uuid.UUID, name string) (*models.Column, error) {
	args := m.Called(ctx, projectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Column), args.Error(1)
}

func (m *MockColumnService) Rename(ctx context.Context, columnID uuid.UUID, name string) (*models.Column, error) {
	args := m.Called(ctx, columnID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Column), args.Error(1)
}

func (m *MockColumnService) Delete(ctx context.Context, columnID uuid.UUID) error {
	args := m.Called(ctx, columnID)
	return args.Error(0)
}

// MockTaskService mocks the TaskService
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) GetByColumn(ctx context.Context, columnID uuid.UUID) ([]models.Task, error) {
	args := m.Called(ctx, columnID)
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, columnID, createdBy uuid.UUID, params services.CreateTaskParams) (*models.Task, error) {
	args := m.Called(ctx, columnID, createdBy, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, taskID uuid.UUID, params services.UpdateTaskParams) (*models.Task, error) {
	args := m.Called(ctx, taskID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Move(ctx context.Context, taskID, destColumnID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, taskID, destColumnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, taskID uuid.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth.ExchangeResult, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.ExchangeResult), args.Error(1)
}

func (m *MockOAuthProvider) UserInfoFromToken(ctx context.Context, accessToken string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
