package handlers

import (
	"errors"
	"net/http"

	"github.com/finkan/finkan-api/internal/services"
	"github.com/finkan/finkan-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ColumnHandler struct {
	columns    ColumnStore
	workspaces WorkspaceStore
}

func NewColumnHandler(columns ColumnStore, workspaces WorkspaceStore) *ColumnHandler {
	return &ColumnHandler{columns: columns, workspaces: workspaces}
}

func (h *ColumnHandler) ListByProject(c *drift.Context) {
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

	columns, err := h.columns.GetByProject(c.Request.Context(), projectID)
	if err != nil {
		internalError(c, "failed to list columns", err)
		return
	}

	resp := make([]dto.ColumnResponse, 0, len(columns))
	for i := range columns {
		resp = append(resp, dto.NewColumnResponse(&columns[i]))
	}
	_ = c.JSON(http.StatusOK, resp)
}

// Create appends a column at the end of the board.
func (h *ColumnHandler) Create(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	projectID, ok := paramUUID(c, "projectId")
	if !ok {
		return
	}

	var req dto.CreateColumnRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		return h.workspaces.WorkspaceIDForProject(c.Request.Context(), projectID)
	}); !ok {
		return
	}

	column, err := h.columns.Create(c.Request.Context(), projectID, req.Name)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("project not found")
		return
	}
	if err != nil {
		internalError(c, "failed to create column", err)
		return
	}
	_ = c.JSON(http.StatusCreated, dto.NewColumnResponse(column))
}

func (h *ColumnHandler) Update(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	columnID, ok := paramUUID(c, "columnId")
	if !ok {
		return
	}

	var req dto.UpdateColumnRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		return h.workspaces.WorkspaceIDForColumn(c.Request.Context(), columnID)
	}); !ok {
		return
	}

	column, err := h.columns.Rename(c.Request.Context(), columnID, req.Name)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("column not found")
		return
	}
	if err != nil {
		internalError(c, "failed to rename column", err)
		return
	}
	_ = c.JSON(http.StatusOK, dto.NewColumnResponse(column))
}

// Delete removes the column with its tasks and renumbers the remaining
// board columns.
func (h *ColumnHandler) Delete(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	columnID, ok := paramUUID(c, "columnId")
	if !ok {
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		return h.workspaces.WorkspaceIDForColumn(c.Request.Context(), columnID)
	}); !ok {
		return
	}

	if err := h.columns.Delete(c.Request.Context(), columnID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.NotFound("column not found")
			return
		}
		internalError(c, "failed to delete column", err)
		return
	}
	_ = c.JSON(http.StatusOK, map[string]string{"message": "column deleted"})
}
