package controllers

import (
	"context"
	"net/http"
	"time"

	"tasktracker/app/services"

	"github.com/charmbracelet/log"
)

// HealthController reports whether the store is reachable.
type HealthController struct {
	Service *services.TaskService
	Timeout time.Duration
	logger  *log.Logger
}

// NewHealthController creates a HealthController with a two second ping timeout.
func NewHealthController(service *services.TaskService, logger *log.Logger) *HealthController {
	return &HealthController{Service: service, Timeout: 2 * time.Second, logger: logger}
}

// Health handles GET /healthz.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
	defer cancel()

	if err := c.Service.Ping(ctx); err != nil {
		c.logger.Warn("health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
