package dto

import (
	"time"

	"github.com/finkan/finkan-api/internal/models"
	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	ColumnID          *uuid.UUID `json:"column_id"`
	Title             string     `json:"title"`
	Description       *string    `json:"description"`
	Priority          *string    `json:"priority"`
	Status            *string    `json:"status"`
	DueDate           *time.Time `json:"due_date"`
	AssigneeID        *uuid.UUID `json:"assignee_id"`
	IsRecurring       *bool      `json:"is_recurring"`
	RecurrencePattern *string    `json:"recurrence_pattern"`
}

type UpdateTaskRequest struct {
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	Priority          *string    `json:"priority"`
	Status            *string    `json:"status"`
	DueDate           *time.Time `json:"due_date"`
	AssigneeID        *uuid.UUID `json:"assignee_id"`
	IsRecurring       *bool      `json:"is_recurring"`
	RecurrencePattern *string    `json:"recurrence_pattern"`
}

type MoveTaskRequest struct {
	ColumnID uuid.UUID `json:"column_id"`
}

type TaskResponse struct {
	ID                uuid.UUID  `json:"id"`
	ColumnID          uuid.UUID  `json:"column_id"`
	Title             string     `json:"title"`
	Description       *string    `json:"description"`
	AssigneeID        *uuid.UUID `json:"assignee_id"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	DueDate           *time.Time `json:"due_date"`
	IsRecurring       bool       `json:"is_recurring"`
	RecurrencePattern *string    `json:"recurrence_pattern"`
	Position          int        `json:"position"`
	CreatedBy         uuid.UUID  `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func NewTaskResponse(t *models.Task) TaskResponse {
	return TaskResponse{
		ID:                t.ID,
		ColumnID:          t.ColumnID,
		Title:             t.Title,
		Description:       t.Description,
		AssigneeID:        t.AssigneeID,
		Priority:          t.Priority,
		Status:            t.Status,
		DueDate:           t.DueDate,
		IsRecurring:       t.IsRecurring,
		RecurrencePattern: t.RecurrencePattern,
		Position:          t.Position,
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}
