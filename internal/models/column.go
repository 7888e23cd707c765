package models

import (
	"time"

	"github.com/google/uuid"
)

// Column is an ordered stage within a project board. Positions within a
// project form a dense 0-based sequence at all times.
type Column struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
