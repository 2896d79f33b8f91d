package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/GyasiAmosKwadwo/elevation-church/internal/domain/content"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/http/response"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/services"
)

// PrayerRequestHandler has no update: requests are submitted, read by staff
// and removed.
type PrayerRequestHandler struct {
	log     *logger.Logger
	svc     services.PrayerRequestService
	metrics *observability.Metrics
	baseURL string
}

func NewPrayerRequestHandler(log *logger.Logger, svc services.PrayerRequestService, metrics *observability.Metrics, baseURL string) *PrayerRequestHandler {
	return &PrayerRequestHandler{
		log:     log.With("handler", "PrayerRequestHandler"),
		svc:     svc,
		metrics: metrics,
		baseURL: baseURL,
	}
}

// GET /api/prayer-requests/
func (h *PrayerRequestHandler) List(c *gin.Context) {
	params, err := listParams(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	page, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondPage(c, h.baseURL, page)
}

// GET /api/prayer-requests/:id/
func (h *PrayerRequestHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id", "prayer request")
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	out, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/prayer-requests/create/
func (h *PrayerRequestHandler) Create(c *gin.Context) {
	var in services.PrayerRequestInput
	if err := bindInput(c, &in); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	out, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	h.metrics.IncWrite(domain.EntityPrayerRequest, "create")
	response.RespondCreated(c, out)
}

// DELETE /api/prayer-requests/:id/delete/
func (h *PrayerRequestHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id", "prayer request")
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	h.metrics.IncWrite(domain.EntityPrayerRequest, "delete")
	response.RespondNoContent(c)
}
