package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/itemkeeper/internal/logging"
	"github.com/dmitrijs2005/itemkeeper/internal/resultset"
	"github.com/gin-gonic/gin"
)

// Pinger runs a trivial statement against the store.
type Pinger interface {
	Query(ctx context.Context, statement string, args ...any) (resultset.Result, error)
}

type HealthResponse struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks"`
}

type HealthController struct {
	store  Pinger
	logger logging.Logger
}

func NewHealthController(store Pinger, logger logging.Logger) *HealthController {
	return &HealthController{store: store, logger: logger}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	ctx := c.Request.Context()
	if _, err := h.store.Query(ctx, "SELECT 1"); err != nil {
		// driver text stays in the log
		h.logger.Error(ctx, "health check failed", "check", "database", "error", err)
		checks["database"] = "error"
		status = "unhealthy"
	} else {
		checks["database"] = "ok"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, HealthResponse{
		Status: status,
		Time:   time.Now().UTC().Format(time.RFC3339),
		Checks: checks,
	})
}
