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

type ProjectService struct {
	db *database.DB
}

func NewProjectService(db *database.DB) *ProjectService {
	return &ProjectService{db: db}
}

// Create inserts the project and its default columns in one transaction, so a
// project is never visible without its board structure.
func (s *ProjectService) Create(ctx context.Context, workspaceID uuid.UUID, name string, description *string, createdBy uuid.UUID) (*models.Project, error) {
	defer metrics.TrackDBOperation("project_create")(time.Now())

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var project models.Project
	err = tx.QueryRow(ctx, `
		INSERT INTO projects (workspace_id, name, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, workspace_id, name, description, created_by, is_archived, created_at, updated_at
	`, workspaceID, name, description, createdBy).Scan(
		&project.ID, &project.WorkspaceID, &project.Name, &project.Description,
		&project.CreatedBy, &project.IsArchived, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	for position, columnName := range models.DefaultColumnNames {
		_, err = tx.Exec(ctx, `
			INSERT INTO columns (project_id, name, position)
			VALUES ($1, $2, $3)
		`, project.ID, columnName, position)
		if err != nil {
			return nil, fmt.Errorf("failed to create default column %q: %w", columnName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &project, nil
}

func (s *ProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, workspace_id, name, description, created_by, is_archived, created_at, updated_at
		FROM projects WHERE id = $1
	`, projectID).Scan(
		&project.ID, &project.WorkspaceID, &project.Name, &project.Description,
		&project.CreatedBy, &project.IsArchived, &project.CreatedAt, &project.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByWorkspace lists live (non-archived) projects, newest first.
func (s *ProjectService) GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Project, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, workspace_id, name, description, created_by, is_archived, created_at, updated_at
		FROM projects
		WHERE workspace_id = $1 AND is_archived = FALSE
		ORDER BY created_at DESC
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID, &p.WorkspaceID, &p.Name, &p.Description,
			&p.CreatedBy, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *ProjectService) Update(ctx context.Context, projectID uuid.UUID, name, description *string) (*models.Project, error) {
	var project models.Project
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE projects
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING id, workspace_id, name, description, created_by, is_archived, created_at, updated_at
	`, name, description, projectID).Scan(
		&project.ID, &project.WorkspaceID, &project.Name, &project.Description,
		&project.CreatedBy, &project.IsArchived, &project.CreatedAt, &project.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Archive soft-deletes the project. Projects are never hard-deleted.
func (s *ProjectService) Archive(ctx context.Context, projectID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE projects SET is_archived = TRUE, updated_at = NOW() WHERE id = $1
	`, projectID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
