package dto

import (
	"time"

	"github.com/finkan/finkan-api/internal/models"
	"github.com/google/uuid"
)

type CreateColumnRequest struct {
	Name string `json:"name"`
}

type UpdateColumnRequest struct {
	Name string `json:"name"`
}

type ColumnResponse struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewColumnResponse(c *models.Column) ColumnResponse {
	return ColumnResponse{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		Name:      c.Name,
		Position:  c.Position,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
