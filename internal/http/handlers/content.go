package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/http/response"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/services"
)

// CRUDService is the surface every content collection service exposes.
type CRUDService[V any, In any] interface {
	List(ctx context.Context, params services.ListParams) (*services.Page[V], error)
	Get(ctx context.Context, id uuid.UUID) (*V, error)
	Create(ctx context.Context, in *In) (*V, error)
	Update(ctx context.Context, id uuid.UUID, in *In, partial bool) (*V, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AttachFunc copies multipart file parts onto a decoded input.
type AttachFunc[In any] func(c *gin.Context, in *In) error

// ContentHandler serves one collection: list, retrieve, create, update and delete.
type ContentHandler[V any, In any] struct {
	log        *logger.Logger
	svc        CRUDService[V, In]
	metrics    *observability.Metrics
	collection string
	noun       string
	baseURL    string
	attach     AttachFunc[In]
}

type ContentHandlerConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	// Collection is the entity name used in metrics.
	Collection string
	// Noun names a single row in not-found messages.
	Noun string
	// BaseURL prefixes pagination links. Empty means the request origin.
	BaseURL string
}

func NewContentHandler[V any, In any](cfg ContentHandlerConfig, svc CRUDService[V, In], attach AttachFunc[In]) *ContentHandler[V, In] {
	return &ContentHandler[V, In]{
		log:        cfg.Log.With("handler", "ContentHandler", "collection", cfg.Collection),
		svc:        svc,
		metrics:    cfg.Metrics,
		collection: cfg.Collection,
		noun:       cfg.Noun,
		baseURL:    cfg.BaseURL,
		attach:     attach,
	}
}

// GET /api/<collection>/
func (h *ContentHandler[V, In]) List(c *gin.Context) {
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

// GET /api/<collection>/:id/
func (h *ContentHandler[V, In]) Get(c *gin.Context) {
	id, err := pathID(c, "id", h.noun)
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

// POST /api/<collection>/create/
func (h *ContentHandler[V, In]) Create(c *gin.Context) {
	in, err := h.decode(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	out, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	h.metrics.IncWrite(h.collection, "create")
	response.RespondCreated(c, out)
}

// PUT|PATCH /api/<collection>/:id/update/
func (h *ContentHandler[V, In]) Update(c *gin.Context) {
	id, err := pathID(c, "id", h.noun)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	in, err := h.decode(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	out, err := h.svc.Update(c.Request.Context(), id, in, isPartial(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	h.metrics.IncWrite(h.collection, "update")
	response.RespondOK(c, out)
}

// DELETE /api/<collection>/:id/update/
func (h *ContentHandler[V, In]) Delete(c *gin.Context) {
	id, err := pathID(c, "id", h.noun)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	h.metrics.IncWrite(h.collection, "delete")
	response.RespondNoContent(c)
}

func (h *ContentHandler[V, In]) decode(c *gin.Context) (*In, error) {
	in := new(In)
	if err := bindInput(c, in); err != nil {
		return nil, err
	}
	if h.attach != nil {
		if err := h.attach(c, in); err != nil {
			return nil, err
		}
	}
	return in, nil
}

// AttachSeriesImage reads the optional "image" part.
func AttachSeriesImage(c *gin.Context, in *services.SeriesInput) error {
	up, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	in.Image = up
	return nil
}

// AttachEventFlyer reads the optional "flyer" part.
func AttachEventFlyer(c *gin.Context, in *services.EventInput) error {
	up, err := formUpload(c, "flyer")
	if err != nil {
		return err
	}
	in.Flyer = up
	return nil
}

// AttachDevotionThumbnail reads the optional "thumbnail" part.
func AttachDevotionThumbnail(c *gin.Context, in *services.DevotionInput) error {
	up, err := formUpload(c, "thumbnail")
	if err != nil {
		return err
	}
	in.Thumbnail = up
	return nil
}
