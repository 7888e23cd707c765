package handlers

import (
	"errors"
	"net/http"

	"github.com/finkan/finkan-api/internal/models"
	"github.com/finkan/finkan-api/internal/services"
	"github.com/finkan/finkan-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type TaskHandler struct {
	tasks      TaskStore
	workspaces WorkspaceStore
}

func NewTaskHandler(tasks TaskStore, workspaces WorkspaceStore) *TaskHandler {
	return &TaskHandler{tasks: tasks, workspaces: workspaces}
}

func (h *TaskHandler) ListByColumn(c *drift.Context) {
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

	tasks, err := h.tasks.GetByColumn(c.Request.Context(), columnID)
	if err != nil {
		internalError(c, "failed to list tasks", err)
		return
	}

	resp := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, dto.NewTaskResponse(&tasks[i]))
	}
	_ = c.JSON(http.StatusOK, resp)
}

// CreateInColumn appends a task to the column named in the path.
func (h *TaskHandler) CreateInColumn(c *drift.Context) {
	columnID, ok := paramUUID(c, "columnId")
	if !ok {
		return
	}
	h.create(c, columnID)
}

// Create appends a task to the column named in the body.
func (h *TaskHandler) Create(c *drift.Context) {
	var req dto.CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.ColumnID == nil {
		c.BadRequest("column_id is required")
		return
	}
	h.createFromRequest(c, *req.ColumnID, req)
}

func (h *TaskHandler) create(c *drift.Context, columnID uuid.UUID) {
	var req dto.CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	h.createFromRequest(c, columnID, req)
}

func (h *TaskHandler) createFromRequest(c *drift.Context, columnID uuid.UUID, req dto.CreateTaskRequest) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	if req.Title == "" {
		c.BadRequest("title is required")
		return
	}
	if req.Priority != nil && !models.ValidPriority(*req.Priority) {
		c.BadRequest("invalid priority")
		return
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		c.BadRequest("invalid status")
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		return h.workspaces.WorkspaceIDForColumn(c.Request.Context(), columnID)
	}); !ok {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), columnID, profileID, services.CreateTaskParams{
		Title:             req.Title,
		Description:       req.Description,
		Priority:          req.Priority,
		Status:            req.Status,
		DueDate:           req.DueDate,
		AssigneeID:        req.AssigneeID,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
	})
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("column not found")
		return
	}
	if err != nil {
		internalError(c, "failed to create task", err)
		return
	}
	_ = c.JSON(http.StatusCreated, dto.NewTaskResponse(task))
}

func (h *TaskHandler) Get(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	taskID, ok := paramUUID(c, "taskId")
	if !ok {
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		return h.workspaces.WorkspaceIDForTask(c.Request.Context(), taskID)
	}); !ok {
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), taskID)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("task not found")
		return
	}
	if err != nil {
		internalError(c, "failed to fetch task", err)
		return
	}
	_ = c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

func (h *TaskHandler) Update(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	taskID, ok := paramUUID(c, "taskId")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Priority != nil && !models.ValidPriority(*req.Priority) {
		c.BadRequest("invalid priority")
		return
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		c.BadRequest("invalid status")
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		return h.workspaces.WorkspaceIDForTask(c.Request.Context(), taskID)
	}); !ok {
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), taskID, services.UpdateTaskParams{
		Title:             req.Title,
		Description:       req.Description,
		Priority:          req.Priority,
		Status:            req.Status,
		DueDate:           req.DueDate,
		AssigneeID:        req.AssigneeID,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
	})
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("task not found")
		return
	}
	if err != nil {
		internalError(c, "failed to update task", err)
		return
	}
	_ = c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

// Move sends the task to the end of the destination column. The destination
// must sit in the same workspace as the task.
func (h *TaskHandler) Move(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	taskID, ok := paramUUID(c, "taskId")
	if !ok {
		return
	}

	var req dto.MoveTaskRequest
	if err := c.BindJSON(&req); err != nil || req.ColumnID == uuid.Nil {
		c.BadRequest("column_id is required")
		return
	}

	taskWorkspace, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		return h.workspaces.WorkspaceIDForTask(c.Request.Context(), taskID)
	})
	if !ok {
		return
	}

	destWorkspace, err := h.workspaces.WorkspaceIDForColumn(c.Request.Context(), req.ColumnID)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("destination column not found")
		return
	}
	if err != nil {
		internalError(c, "failed to resolve destination column", err)
		return
	}
	if destWorkspace != taskWorkspace {
		c.Forbidden("destination column is in another workspace")
		return
	}

	task, err := h.tasks.Move(c.Request.Context(), taskID, req.ColumnID)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("task not found")
		return
	}
	if err != nil {
		internalError(c, "failed to move task", err)
		return
	}
	_ = c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

// Delete removes the task and closes the position gap it leaves.
func (h *TaskHandler) Delete(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	taskID, ok := paramUUID(c, "taskId")
	if !ok {
		return
	}

	if _, ok := authorizeMember(c, h.workspaces, profileID, func() (uuid.UUID, error) {
		return h.workspaces.WorkspaceIDForTask(c.Request.Context(), taskID)
	}); !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.NotFound("task not found")
			return
		}
		internalError(c, "failed to delete task", err)
		return
	}
	_ = c.JSON(http.StatusOK, map[string]string{"message": "task deleted"})
}
