package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/http/response"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
)

const (
	CodeUnavailable    = "service_unavailable"
	healthCheckTimeout = 2 * time.Second
)

// Dependency is something the API cannot serve without, such as the database.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	log  *logger.Logger
	deps []Dependency
}

func NewHealthHandler(log *logger.Logger, deps ...Dependency) *HealthHandler {
	if log != nil {
		log = log.With("handler", "HealthHandler")
	}
	return &HealthHandler{log: log, deps: deps}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()
	for _, d := range h.deps {
		if d.Ping == nil {
			continue
		}
		if err := d.Ping(ctx); err != nil {
			if h.log != nil {
				h.log.Warn("Health check failed", "dependency", d.Name, "error", err)
			}
			response.RespondError(c, http.StatusServiceUnavailable, CodeUnavailable, fmt.Errorf("%s unavailable", d.Name))
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
