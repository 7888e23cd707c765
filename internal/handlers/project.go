package handlers

import (
	"errors"
	"net/http"

	"github.com/finkan/finkan-api/internal/services"
	"github.com/finkan/finkan-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProjectHandler struct {
	projects   ProjectStore
	workspaces WorkspaceStore
}

func NewProjectHandler(projects ProjectStore, workspaces WorkspaceStore) *ProjectHandler {
	return &ProjectHandler{projects: projects, workspaces: workspaces}
}

// ListByWorkspace returns the workspace's non-archived projects, newest
// first.
func (h *ProjectHandler) ListByWorkspace(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	workspaceID, ok := paramUUID(c, "workspaceId")
	if !ok {
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		_, err := h.workspaces.GetByID(c.Request.Context(), workspaceID)
		return workspaceID, err
	}); !ok {
		return
	}

	projects, err := h.projects.GetByWorkspace(c.Request.Context(), workspaceID)
	if err != nil {
		internalError(c, "failed to list projects", err)
		return
	}

	resp := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		resp = append(resp, dto.NewProjectResponse(&projects[i]))
	}
	_ = c.JSON(http.StatusOK, resp)
}

// Create creates the project with its default board columns in one unit.
func (h *ProjectHandler) Create(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	workspaceID, ok := paramUUID(c, "workspaceId")
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		_, err := h.workspaces.GetByID(c.Request.Context(), workspaceID)
		return workspaceID, err
	}); !ok {
		return
	}

	project, err := h.projects.Create(c.Request.Context(), workspaceID, req.Name, req.Description, profileID)
	if err != nil {
		internalError(c, "failed to create project", err)
		return
	}
	_ = c.JSON(http.StatusCreated, dto.NewProjectResponse(project))
}

func (h *ProjectHandler) Get(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	projectID, ok := paramUUID(c, "projectId")
	if !ok {
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		return h.workspaces.WorkspaceIDForProject(c.Request.Context(), projectID)
	}); !ok {
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), projectID)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("project not found")
		return
	}
	if err != nil {
		internalError(c, "failed to fetch project", err)
		return
	}
	_ = c.JSON(http.StatusOK, dto.NewProjectResponse(project))
}

func (h *ProjectHandler) Update(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	projectID, ok := paramUUID(c, "projectId")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		return h.workspaces.WorkspaceIDForProject(c.Request.Context(), projectID)
	}); !ok {
		return
	}

	project, err := h.projects.Update(c.Request.Context(), projectID, req.Name, req.Description)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("project not found")
		return
	}
	if err != nil {
		internalError(c, "failed to update project", err)
		return
	}
	_ = c.JSON(http.StatusOK, dto.NewProjectResponse(project))
}

// Delete archives the project. Rows are never hard-deleted so boards can be
// restored by support tooling.
func (h *ProjectHandler) Delete(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	projectID, ok := paramUUID(c, "projectId")
	if !ok {
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		return h.workspaces.WorkspaceIDForProject(c.Request.Context(), projectID)
	}); !ok {
		return
	}

	if err := h.projects.Archive(c.Request.Context(), projectID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.NotFound("project not found")
			return
		}
		internalError(c, "failed to archive project", err)
		return
	}
	_ = c.JSON(http.StatusOK, map[string]string{"message": "project archived"})
}
