package handlers

import (
	"errors"
	"net/http"

	"github.com/finkan/finkan-api/internal/middleware"
	"github.com/finkan/finkan-api/internal/models"
	"github.com/finkan/finkan-api/internal/services"
	"github.com/finkan/finkan-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type WorkspaceHandler struct {
	workspaces WorkspaceStore
}

func NewWorkspaceHandler(workspaces WorkspaceStore) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

// List returns every workspace the caller belongs to, annotated with the
// caller's role in each.
func (h *WorkspaceHandler) List(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}

	workspaces, roles, err := h.workspaces.GetProfileWorkspaces(c.Request.Context(), profileID)
	if err != nil {
		internalError(c, "failed to list workspaces", err)
		return
	}

	resp := make([]dto.WorkspaceResponse, 0, len(workspaces))
	for i := range workspaces {
		w := dto.NewWorkspaceResponse(&workspaces[i])
		w.Role = roles[i]
		resp = append(resp, w)
	}
	_ = c.JSON(http.StatusOK, resp)
}

func (h *WorkspaceHandler) Create(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	email, _ := middleware.GetProfileEmail(c)

	var req dto.CreateWorkspaceRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	workspace, err := h.workspaces.Create(c.Request.Context(), req.Name, req.Icon, req.Description, profileID, email)
	if err != nil {
		internalError(c, "failed to create workspace", err)
		return
	}

	resp := dto.NewWorkspaceResponse(workspace)
	resp.Role = models.RoleOwner
	_ = c.JSON(http.StatusCreated, resp)
}

func (h *WorkspaceHandler) Get(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	workspaceID, ok := paramUUID(c, "workspaceId")
	if !ok {
		return
	}

	workspace, err := h.workspaces.GetByID(c.Request.Context(), workspaceID)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("workspace not found")
		return
	}
	if err != nil {
		internalError(c, "failed to fetch workspace", err)
		return
	}

	role, err := h.workspaces.GetMemberRole(c.Request.Context(), workspaceID, profileID)
	if errors.Is(err, services.ErrNotFound) {
		c.Forbidden("not a workspace member")
		return
	}
	if err != nil {
		internalError(c, "failed to check membership", err)
		return
	}

	resp := dto.NewWorkspaceResponse(workspace)
	resp.Role = role
	_ = c.JSON(http.StatusOK, resp)
}

func (h *WorkspaceHandler) Update(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	workspaceID, ok := paramUUID(c, "workspaceId")
	if !ok {
		return
	}

	var req dto.UpdateWorkspaceRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if _, ok := h.authorize(c, workspaceID, profileID); !ok {
		return
	}

	workspace, err := h.workspaces.Update(c.Request.Context(), workspaceID, req.Name, req.Icon, req.Description)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("workspace not found")
		return
	}
	if err != nil {
		internalError(c, "failed to update workspace", err)
		return
	}
	_ = c.JSON(http.StatusOK, dto.NewWorkspaceResponse(workspace))
}

// Delete removes the workspace and everything under it. Only the owner may
// do this; admins and members get 403.
func (h *WorkspaceHandler) Delete(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	workspaceID, ok := paramUUID(c, "workspaceId")
	if !ok {
		return
	}

	role, ok := h.authorize(c, workspaceID, profileID)
	if !ok {
		return
	}
	if role != models.RoleOwner {
		c.Forbidden("only the workspace owner can delete it")
		return
	}

	if err := h.workspaces.Delete(c.Request.Context(), workspaceID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.NotFound("workspace not found")
			return
		}
		internalError(c, "failed to delete workspace", err)
		return
	}
	_ = c.JSON(http.StatusOK, map[string]string{"message": "workspace deleted"})
}

func (h *WorkspaceHandler) ListMembers(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	workspaceID, ok := paramUUID(c, "workspaceId")
	if !ok {
		return
	}

	if _, ok := h.authorize(c, workspaceID, profileID); !ok {
		return
	}

	members, err := h.workspaces.GetMembers(c.Request.Context(), workspaceID)
	if err != nil {
		internalError(c, "failed to list members", err)
		return
	}

	resp := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, dto.NewMemberResponse(&members[i]))
	}
	_ = c.JSON(http.StatusOK, resp)
}

func (h *WorkspaceHandler) AddMember(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	workspaceID, ok := paramUUID(c, "workspaceId")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}

	if _, ok := h.authorize(c, workspaceID, profileID); !ok {
		return
	}

	member, err := h.workspaces.AddMemberByEmail(c.Request.Context(), workspaceID, req.Email)
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		c.NotFound("no profile with that email")
		return
	case errors.Is(err, services.ErrAlreadyMember):
		c.BadRequest("already a member")
		return
	case err != nil:
		internalError(c, "failed to add member", err)
		return
	}
	_ = c.JSON(http.StatusCreated, dto.NewMemberResponse(member))
}

// authorize verifies the workspace exists (404) and the caller is a member
// (403), returning the caller's role.
func (h *WorkspaceHandler) authorize(c *drift.Context, workspaceID, profileID uuid.UUID) (string, bool) {
	_, err := h.workspaces.GetByID(c.Request.Context(), workspaceID)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("workspace not found")
		return "", false
	}
	if err != nil {
		internalError(c, "failed to fetch workspace", err)
		return "", false
	}

	role, err := h.workspaces.GetMemberRole(c.Request.Context(), workspaceID, profileID)
	if errors.Is(err, services.ErrNotFound) {
		c.Forbidden("not a workspace member")
		return "", false
	}
	if err != nil {
		internalError(c, "failed to check membership", err)
		return "", false
	}
	return role, true
}
