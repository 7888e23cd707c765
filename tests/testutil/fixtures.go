package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/finkan/finkan-api/internal/database"
	"github.com/finkan/finkan-api/internal/models"
	"github.com/finkan/finkan-api/internal/oauth"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateProfile creates a test profile with default values
func (f *Fixtures) CreateProfile(t *testing.T, opts ...ProfileOption) *models.Profile {
	t.Helper()
	f.counter++

	name := fmt.Sprintf("Test Profile %d", f.counter)
	msID := fmt.Sprintf("ms-%d", f.counter)
	profile := &models.Profile{
		Email:        fmt.Sprintf("profile%d@example.com", f.counter),
		FullName:     &name,
		MicrosoftID:  &msID,
		AuthProvider: "microsoft",
	}

	for _, opt := range opts {
		opt(profile)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (email, full_name, avatar_url, microsoft_id, auth_provider)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, full_name, avatar_url, microsoft_id, auth_provider, created_at, updated_at
	`, profile.Email, profile.FullName, profile.AvatarURL, profile.MicrosoftID, profile.AuthProvider).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.AvatarURL,
		&profile.MicrosoftID, &profile.AuthProvider, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	return profile
}

// ProfileOption configures a test profile
type ProfileOption func(*models.Profile)

// WithEmail sets the profile's email
func WithEmail(email string) ProfileOption {
	return func(p *models.Profile) {
		p.Email = email
	}
}

// WithMicrosoftID sets the profile's identity provider id
func WithMicrosoftID(id string) ProfileOption {
	return func(p *models.Profile) {
		p.MicrosoftID = &id
	}
}

// CreateWorkspace creates a test workspace owned by the given profile
func (f *Fixtures) CreateWorkspace(t *testing.T, owner *models.Profile, opts ...WorkspaceOption) *models.Workspace {
	t.Helper()
	f.counter++

	ws := &models.Workspace{
		Name:      fmt.Sprintf("Test Workspace %d", f.counter),
		CreatedBy: owner.ID,
	}

	for _, opt := range opts {
		opt(ws)
	}

	ctx := context.Background()
	tx, err := f.db.Pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO workspaces (name, icon, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, icon, description, created_by, created_at, updated_at
	`, ws.Name, ws.Icon, ws.Description, ws.CreatedBy).Scan(
		&ws.ID, &ws.Name, &ws.Icon, &ws.Description, &ws.CreatedBy, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, profile_id, role)
		VALUES ($1, $2, $3)
	`, ws.ID, owner.ID, models.RoleOwner)
	if err != nil {
		t.Fatalf("failed to add owner as member: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit transaction: %v", err)
	}

	return ws
}

// WorkspaceOption configures a test workspace
type WorkspaceOption func(*models.Workspace)

// WithWorkspaceName sets the workspace name
func WithWorkspaceName(name string) WorkspaceOption {
	return func(w *models.Workspace) {
		w.Name = name
	}
}

// AddMember adds a profile to a workspace with the given role
func (f *Fixtures) AddMember(t *testing.T, ws *models.Workspace, profile *models.Profile, role string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, profile_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (workspace_id, profile_id) DO NOTHING
	`, ws.ID, profile.ID, role)
	if err != nil {
		t.Fatalf("failed to add workspace member: %v", err)
	}
}

// CreateProject creates a test project without the default columns, so
// ordering tests start from an empty board
func (f *Fixtures) CreateProject(t *testing.T, ws *models.Workspace, creator *models.Profile) *models.Project {
	t.Helper()
	f.counter++

	p := &models.Project{
		WorkspaceID: ws.ID,
		Name:        fmt.Sprintf("Test Project %d", f.counter),
		CreatedBy:   creator.ID,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO projects (workspace_id, name, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, workspace_id, name, description, created_by, is_archived, created_at, updated_at
	`, p.WorkspaceID, p.Name, p.Description, p.CreatedBy).Scan(
		&p.ID, &p.WorkspaceID, &p.Name, &p.Description, &p.CreatedBy,
		&p.IsArchived, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	return p
}

// CreateColumn creates a test column at the given position
func (f *Fixtures) CreateColumn(t *testing.T, project *models.Project, name string, position int) *models.Column {
	t.Helper()

	c := &models.Column{
		ProjectID: project.ID,
		Name:      name,
		Position:  position,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO columns (project_id, name, position)
		VALUES ($1, $2, $3)
		RETURNING id, project_id, name, position, created_at, updated_at
	`, c.ProjectID, c.Name, c.Position).Scan(
		&c.ID, &c.ProjectID, &c.Name, &c.Position, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}

	return c
}

// CreateTask creates a test task at the given position
func (f *Fixtures) CreateTask(t *testing.T, column *models.Column, creator *models.Profile, title string, position int) *models.Task {
	t.Helper()

	task := &models.Task{
		ColumnID:  column.ID,
		Title:     title,
		Priority:  models.PriorityMedium,
		Status:    models.StatusTodo,
		Position:  position,
		CreatedBy: creator.ID,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (column_id, title, priority, status, position, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, column_id, title, description, assignee_id, priority, status,
			due_date, is_recurring, recurrence_pattern, position, created_by, created_at, updated_at
	`, task.ColumnID, task.Title, task.Priority, task.Status, task.Position, task.CreatedBy).Scan(
		&task.ID, &task.ColumnID, &task.Title, &task.Description, &task.AssigneeID,
		&task.Priority, &task.Status, &task.DueDate, &task.IsRecurring, &task.RecurrencePattern,
		&task.Position, &task.CreatedBy, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	return task
}

// CreateSession stores provider tokens for a profile
func (f *Fixtures) CreateSession(t *testing.T, profileID uuid.UUID, accessToken string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO auth_sessions (profile_id, access_token, expires_at)
		VALUES ($1, $2, NOW() + INTERVAL '1 hour')
	`, profileID, accessToken)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  "microsoft",
	}
}
