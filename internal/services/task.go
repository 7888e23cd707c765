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

const taskColumns = `id, column_id, title, description, assignee_id, priority, status,
	due_date, is_recurring, recurrence_pattern, position, created_by, created_at, updated_at`

// CreateTaskParams carries the optional attributes of a new task. Absent
// fields fall back to the database defaults (medium priority, todo status).
type CreateTaskParams struct {
	Title             string
	Description       *string
	Priority          *string
	Status            *string
	DueDate           *time.Time
	AssigneeID        *uuid.UUID
	IsRecurring       *bool
	RecurrencePattern *string
}

// UpdateTaskParams enumerates every mutable task attribute. Nil means
// "leave unchanged"; only the listed fields can ever reach the UPDATE.
type UpdateTaskParams struct {
	Title             *string
	Description       *string
	Priority          *string
	Status            *string
	DueDate           *time.Time
	AssigneeID        *uuid.UUID
	IsRecurring       *bool
	RecurrencePattern *string
}

// TaskService owns task rows and their dense per-column position sequence.
// The same locking discipline as columns applies, with the owning column
// row as the serialization point.
type TaskService struct {
	db *database.DB
}

func NewTaskService(db *database.DB) *TaskService {
	return &TaskService{db: db}
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.ColumnID, &t.Title, &t.Description, &t.AssigneeID,
		&t.Priority, &t.Status, &t.DueDate, &t.IsRecurring, &t.RecurrencePattern,
		&t.Position, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskService) GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	task, err := scanTask(s.db.Pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, taskID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) GetByColumn(ctx context.Context, columnID uuid.UUID) ([]models.Task, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE column_id = $1 ORDER BY position`, columnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(
			&t.ID, &t.ColumnID, &t.Title, &t.Description, &t.AssigneeID,
			&t.Priority, &t.Status, &t.DueDate, &t.IsRecurring, &t.RecurrencePattern,
			&t.Position, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Create appends the task to the end of the column. Position is the sibling
// count read under the column lock.
func (s *TaskService) Create(ctx context.Context, columnID, createdBy uuid.UUID, params CreateTaskParams) (*models.Task, error) {
	defer metrics.TrackDBOperation("task_create")(time.Now())

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var lockedID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM columns WHERE id = $1 FOR UPDATE`, columnID).Scan(&lockedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock column: %w", err)
	}

	var position int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE column_id = $1`, columnID).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	priority := models.PriorityMedium
	if params.Priority != nil {
		priority = *params.Priority
	}
	status := models.StatusTodo
	if params.Status != nil {
		status = *params.Status
	}
	isRecurring := false
	if params.IsRecurring != nil {
		isRecurring = *params.IsRecurring
	}

	task, err := scanTask(tx.QueryRow(ctx, `
		INSERT INTO tasks (column_id, title, description, assignee_id, priority, status,
			due_date, is_recurring, recurrence_pattern, position, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+taskColumns+`
	`, columnID, params.Title, params.Description, params.AssigneeID, priority, status,
		params.DueDate, isRecurring, params.RecurrencePattern, position, createdBy))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return task, nil
}

func (s *TaskService) Update(ctx context.Context, taskID uuid.UUID, params UpdateTaskParams) (*models.Task, error) {
	task, err := scanTask(s.db.Pool.QueryRow(ctx, `
		UPDATE tasks SET
			title = COALESCE($1, title),
			description = COALESCE($2, description),
			priority = COALESCE($3, priority),
			status = COALESCE($4, status),
			due_date = COALESCE($5, due_date),
			assignee_id = COALESCE($6, assignee_id),
			is_recurring = COALESCE($7, is_recurring),
			recurrence_pattern = COALESCE($8, recurrence_pattern),
			updated_at = NOW()
		WHERE id = $9
		RETURNING `+taskColumns+`
	`, params.Title, params.Description, params.Priority, params.Status,
		params.DueDate, params.AssigneeID, params.IsRecurring, params.RecurrencePattern, taskID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Move appends the task to the destination column and closes the gap it
// left behind. Both column rows are locked in id order so two concurrent
// moves between the same pair of columns cannot deadlock. Moving within a
// single column sends the task to the end of that column.
func (s *TaskService) Move(ctx context.Context, taskID, destColumnID uuid.UUID) (*models.Task, error) {
	defer metrics.TrackDBOperation("task_move")(time.Now())

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var sourceColumnID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT column_id FROM tasks WHERE id = $1`, taskID).Scan(&sourceColumnID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve task: %w", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT id FROM columns WHERE id = ANY($1) ORDER BY id FOR UPDATE`,
		[]uuid.UUID{sourceColumnID, destColumnID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock columns: %w", err)
	}
	locked := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		locked[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !locked[destColumnID] {
		return nil, ErrNotFound
	}

	var destCount int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE column_id = $1`, destColumnID).Scan(&destCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	// Within the same column the task itself is part of the count, so the
	// new position is one past the end; the renumber below compacts it.
	task, err := scanTask(tx.QueryRow(ctx, `
		UPDATE tasks SET column_id = $1, position = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+taskColumns+`
	`, destColumnID, destCount, taskID))
	if err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}

	if err := renumberTasks(ctx, tx, sourceColumnID); err != nil {
		return nil, err
	}
	if sourceColumnID != destColumnID {
		if err := renumberTasks(ctx, tx, destColumnID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Renumbering may have compacted the position returned by the UPDATE.
	task.Position = destCount
	if sourceColumnID == destColumnID {
		task.Position = destCount - 1
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID uuid.UUID) error {
	defer metrics.TrackDBOperation("task_delete")(time.Now())

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var columnID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT column_id FROM tasks WHERE id = $1`, taskID).Scan(&columnID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to resolve task: %w", err)
	}

	var lockedID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM columns WHERE id = $1 FOR UPDATE`, columnID).Scan(&lockedID)
	if err != nil {
		return fmt.Errorf("failed to lock column: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if err := renumberTasks(ctx, tx, columnID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func renumberTasks(ctx context.Context, tx pgx.Tx, columnID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		WITH ordered AS (
			SELECT id, ROW_NUMBER() OVER (ORDER BY position) - 1 AS new_position
			FROM tasks
			WHERE column_id = $1
		)
		UPDATE tasks t
		SET position = o.new_position, updated_at = NOW()
		FROM ordered o
		WHERE t.id = o.id AND t.position <> o.new_position
	`, columnID)
	if err != nil {
		return fmt.Errorf("failed to renumber tasks: %w", err)
	}
	return nil
}
