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

// ColumnService maintains the dense 0-based position sequence of columns
// within a project. Every mutation that touches positions locks the owning
// project row first, so concurrent appends against the same project are
// serialized instead of racing on a stale count.
type ColumnService struct {
	db *database.DB
}

func NewColumnService(db *database.DB) *ColumnService {
	return &ColumnService{db: db}
}

func (s *ColumnService) GetByProject(ctx context.Context, projectID uuid.UUID) ([]models.Column, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, project_id, name, position, created_at, updated_at
		FROM columns
		WHERE project_id = $1
		ORDER BY position
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []models.Column
	for rows.Next() {
		var c models.Column
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Name, &c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

// Create appends a column at the end of the project. The position is the
// sibling count, computed under the project lock; renumber-on-delete keeps
// the sequence dense, so count and max+1 never diverge.
func (s *ColumnService) Create(ctx context.Context, projectID uuid.UUID, name string) (*models.Column, error) {
	defer metrics.TrackDBOperation("column_create")(time.Now())

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var lockedID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID).Scan(&lockedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock project: %w", err)
	}

	var position int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM columns WHERE project_id = $1`, projectID).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("failed to count columns: %w", err)
	}

	var column models.Column
	err = tx.QueryRow(ctx, `
		INSERT INTO columns (project_id, name, position)
		VALUES ($1, $2, $3)
		RETURNING id, project_id, name, position, created_at, updated_at
	`, projectID, name, position).Scan(
		&column.ID, &column.ProjectID, &column.Name, &column.Position,
		&column.CreatedAt, &column.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &column, nil
}

func (s *ColumnService) Rename(ctx context.Context, columnID uuid.UUID, name string) (*models.Column, error) {
	var column models.Column
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE columns SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, project_id, name, position, created_at, updated_at
	`, name, columnID).Scan(
		&column.ID, &column.ProjectID, &column.Name, &column.Position,
		&column.CreatedAt, &column.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &column, nil
}

// Delete removes the column together with its tasks and renumbers the
// remaining project columns to a contiguous 0..n-1 sequence, all in one
// transaction. A failure anywhere rolls the whole unit back; a gapped
// sequence is never persisted.
func (s *ColumnService) Delete(ctx context.Context, columnID uuid.UUID) error {
	defer metrics.TrackDBOperation("column_delete")(time.Now())

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var projectID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT project_id FROM columns WHERE id = $1`, columnID).Scan(&projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to resolve column: %w", err)
	}

	var lockedID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID).Scan(&lockedID)
	if err != nil {
		return fmt.Errorf("failed to lock project: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE column_id = $1`, columnID); err != nil {
		return fmt.Errorf("failed to delete column tasks: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM columns WHERE id = $1`, columnID); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}

	_, err = tx.Exec(ctx, `
		WITH ordered AS (
			SELECT id, ROW_NUMBER() OVER (ORDER BY position) - 1 AS new_position
			FROM columns
			WHERE project_id = $1
		)
		UPDATE columns c
		SET position = o.new_position, updated_at = NOW()
		FROM ordered o
		WHERE c.id = o.id AND c.position <> o.new_position
	`, projectID)
	if err != nil {
		return fmt.Errorf("failed to renumber columns: %w", err)
	}

	return tx.Commit(ctx)
}
