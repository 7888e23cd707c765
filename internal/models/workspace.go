package models

import (
	"time"

	"github.com/google/uuid"
)

// Workspace member roles.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Workspace struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Icon        *string   `json:"icon,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type WorkspaceMember struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`

	Profile *Profile `json:"profile,omitempty"`
}
