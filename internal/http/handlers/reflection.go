package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/http/response"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/services"
)

type ReflectionHandler struct {
	log *logger.Logger
	svc services.ReflectionService
}

func NewReflectionHandler(log *logger.Logger, svc services.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{log: log.With("handler", "ReflectionHandler"), svc: svc}
}

// GET /api/reflections/devotion/:devotion_id/
//
// The result is a plain array, not a page.
func (h *ReflectionHandler) ListByDevotion(c *gin.Context) {
	id, err := pathID(c, "devotion_id", "devotion")
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	out, err := h.svc.ListByDevotion(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}
