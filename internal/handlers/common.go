package handlers

import (
	"errors"

	"github.com/finkan/finkan-api/internal/logger"
	"github.com/finkan/finkan-api/internal/middleware"
	"github.com/finkan/finkan-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

func paramUUID(c *drift.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.BadRequest("invalid " + name)
		return uuid.Nil, false
	}
	return id, true
}

func currentProfile(c *drift.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetProfileID(c)
	if !ok {
		c.Unauthorized("authentication required")
		return uuid.Nil, false
	}
	return id, true
}

func internalError(c *drift.Context, msg string, err error) {
	logger.L().Error(msg,
		zap.Error(err),
		zap.String("request_id", middleware.GetRequestID(c)),
	)
	c.InternalServerError("internal server error")
}

// authorizeMember resolves the owning workspace of a resource and checks the
// caller's membership. Resolution failure means the resource does not exist
// and is reported as 404 before any membership information leaks; a resolved
// resource outside the caller's workspaces is 403.
func authorizeMember(c *drift.Context, ws WorkspaceStore, profileID uuid.UUID, resolve func() (uuid.UUID, error)) (uuid.UUID, bool) {
	workspaceID, err := resolve()
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("resource not found")
		return uuid.Nil, false
	}
	if err != nil {
		internalError(c, "failed to resolve workspace", err)
		return uuid.Nil, false
	}

	member, err := ws.IsMember(c.Request.Context(), workspaceID, profileID)
	if err != nil {
		internalError(c, "failed to check membership", err)
		return uuid.Nil, false
	}
	if !member {
		c.Forbidden("not a workspace member")
		return uuid.Nil, false
	}
	return workspaceID, true
}
