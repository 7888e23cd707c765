package handlers

import (
	"context"
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *drift.Context) {
	dbStatus := "up"
	status := http.StatusOK
	if err := h.db.Ping(c.Request.Context()); err != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}
	_ = c.JSON(status, map[string]string{
		"status":   "ok",
		"database": dbStatus,
	})
}
