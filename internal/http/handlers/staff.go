package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/GyasiAmosKwadwo/elevation-church/internal/domain/content"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/http/response"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/services"
)

type StaffHandler struct {
	log     *logger.Logger
	svc     services.StaffService
	metrics *observability.Metrics
}

func NewStaffHandler(log *logger.Logger, svc services.StaffService, metrics *observability.Metrics) *StaffHandler {
	return &StaffHandler{log: log.With("handler", "StaffHandler"), svc: svc, metrics: metrics}
}

// POST /api/admins/create/
func (h *StaffHandler) Create(c *gin.Context) {
	var in services.StaffInput
	if err := bindInput(c, &in); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	out, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	h.metrics.IncWrite(domain.EntityStaff, "create")
	response.RespondCreated(c, out)
}

// DELETE /api/admins/:id/delete/
//
// Self-deletion is refused by the access table before this runs.
func (h *StaffHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id", "user")
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	h.metrics.IncWrite(domain.EntityStaff, "delete")
	response.RespondNoContent(c)
}
