package dto

import (
	"time"

	"github.com/finkan/finkan-api/internal/models"
	"github.com/google/uuid"
)

type CreateWorkspaceRequest struct {
	Name        string  `json:"name"`
	Icon        *string `json:"icon"`
	Description *string `json:"description"`
}

type UpdateWorkspaceRequest struct {
	Name        *string `json:"name"`
	Icon        *string `json:"icon"`
	Description *string `json:"description"`
}

type WorkspaceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Icon        *string   `json:"icon"`
	Description *string   `json:"description"`
	CreatedBy   uuid.UUID `json:"created_by"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewWorkspaceResponse(w *models.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:          w.ID,
		Name:        w.Name,
		Icon:        w.Icon,
		Description: w.Description,
		CreatedBy:   w.CreatedBy,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type MemberResponse struct {
	WorkspaceID uuid.UUID       `json:"workspace_id"`
	ProfileID   uuid.UUID       `json:"profile_id"`
	Role        string          `json:"role"`
	CreatedAt   time.Time       `json:"created_at"`
	Profile     ProfileResponse `json:"profile"`
}

func NewMemberResponse(m *models.WorkspaceMember) MemberResponse {
	resp := MemberResponse{
		WorkspaceID: m.WorkspaceID,
		ProfileID:   m.ProfileID,
		Role:        m.Role,
		CreatedAt:   m.CreatedAt,
	}
	if m.Profile != nil {
		resp.Profile = NewProfileResponse(m.Profile)
	}
	return resp
}
