package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/utils"
)

// Pinger is a dependency the health check pings.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks  map[string]Pinger
	version string
	logger  logger.Interface
}

func NewHealthHandler(checks map[string]Pinger, version string, logger logger.Interface) *HealthHandler {
	return &HealthHandler{checks: checks, version: version, logger: logger}
}

// Health answers 503 when any dependency does not respond within two
// seconds.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.Warnw("health check failed", "dependency", name, "error", err)
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	if status != http.StatusOK {
		c.JSON(status, utils.APIResponse{Success: false, Data: results, Message: "degraded"})
		return
	}
	utils.SuccessResponse(c, status, "ok", results)
}

func (h *HealthHandler) Version(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"version": h.version})
}
