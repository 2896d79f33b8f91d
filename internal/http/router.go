package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	domain "github.com/GyasiAmosKwadwo/elevation-church/internal/domain/content"
	httpH "github.com/GyasiAmosKwadwo/elevation-church/internal/http/handlers"
	httpMW "github.com/GyasiAmosKwadwo/elevation-church/internal/http/middleware"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/http/response"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/cache"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/policy"
)

// Collection is the route set of one content entity.
type Collection interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type RouterConfig struct {
	Log            *logger.Logger
	Policy         *policy.Engine
	Cache          cache.Cache
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware
	CORSOrigins    []string
	// PublicBaseURL is the configured link prefix; empty means links follow the request origin.
	PublicBaseURL string
	// TracingService names the otelgin spans; empty disables the middleware.
	TracingService string
	// MediaDir, when set, is served under MediaPath.
	MediaDir  string
	MediaPath string

	// Collections maps an entity name to its handler.
	Collections map[string]Collection

	ReflectionHandler    *httpH.ReflectionHandler
	PrayerRequestHandler *httpH.PrayerRequestHandler
	StaffHandler         *httpH.StaffHandler
	AuthHandler          *httpH.AuthHandler
	HealthHandler        *httpH.HealthHandler
}

// collectionOrder fixes registration order so route conflicts surface deterministically.
var collectionOrder = []string{
	domain.EntitySermon,
	domain.EntityResource,
	domain.EntitySeries,
	domain.EntityEvent,
	domain.EntityDevotion,
	domain.EntityReflection,
	domain.EntityAnnouncement,
	domain.EntityLiveStream,
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.RespondAPIError(c, cfg.Log, apierr.NotFound("resource"))
	})
	r.NoMethod(func(c *gin.Context) {
		response.RespondAPIError(c, cfg.Log, apierr.New(http.StatusMethodNotAllowed, policy.CodeOperationNotAllowed,
			errors.New("method not allowed")))
	})

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", func(c *gin.Context) { cfg.Metrics.WriteHTTP(c.Writer, c.Request) })
	}
	if cfg.MediaDir != "" && cfg.MediaPath != "" {
		r.Static(cfg.MediaPath, cfg.MediaDir)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.Authenticate())
	}
	guard := func(entity string, op policy.Op) gin.HandlerFunc {
		return httpMW.Authorize(cfg.Policy, cfg.Log, entity, op)
	}

	for _, entity := range collectionOrder {
		h, ok := cfg.Collections[entity]
		if !ok || h == nil {
			continue
		}
		g := api.Group("/" + entity)
		cached := httpMW.ResponseCache(cfg.Cache, cfg.Metrics, entity, cfg.PublicBaseURL)
		g.GET("/", guard(entity, policy.OpList), cached, h.List)
		g.POST("/create/", guard(entity, policy.OpCreate), h.Create)
		g.GET("/:id/", guard(entity, policy.OpRetrieve), cached, h.Get)
		g.PUT("/:id/update/", guard(entity, policy.OpUpdate), h.Update)
		g.PATCH("/:id/update/", guard(entity, policy.OpUpdate), h.Update)
		g.DELETE("/:id/update/", guard(entity, policy.OpDelete), h.Delete)
	}

	if cfg.ReflectionHandler != nil {
		api.GET("/reflections/devotion/:devotion_id/",
			guard(domain.EntityReflection, policy.OpList),
			httpMW.ResponseCache(cfg.Cache, cfg.Metrics, domain.EntityReflection, cfg.PublicBaseURL),
			cfg.ReflectionHandler.ListByDevotion)
	}

	// Prayer requests are private: never cached.
	if h := cfg.PrayerRequestHandler; h != nil {
		g := api.Group("/" + domain.EntityPrayerRequest)
		g.GET("/", guard(domain.EntityPrayerRequest, policy.OpList), h.List)
		g.POST("/create/", guard(domain.EntityPrayerRequest, policy.OpCreate), h.Create)
		g.GET("/:id/", guard(domain.EntityPrayerRequest, policy.OpRetrieve), h.Get)
		g.DELETE("/:id/delete/", guard(domain.EntityPrayerRequest, policy.OpDelete), h.Delete)
		// Not offered; the access table answers 405.
		g.PUT("/:id/update/", guard(domain.EntityPrayerRequest, policy.OpUpdate))
		g.PATCH("/:id/update/", guard(domain.EntityPrayerRequest, policy.OpUpdate))
	}

	if h := cfg.StaffHandler; h != nil {
		g := api.Group("/" + domain.EntityStaff)
		g.POST("/create/", guard(domain.EntityStaff, policy.OpCreate), h.Create)
		g.DELETE("/:id/delete/", guard(domain.EntityStaff, policy.OpDelete), h.Delete)
	}

	if h := cfg.AuthHandler; h != nil {
		g := api.Group("/auth")
		g.POST("/login/", h.Login)
		g.POST("/refresh/", h.Refresh)
		if cfg.AuthMiddleware != nil {
			g.POST("/logout/", cfg.AuthMiddleware.RequireAuth(), h.Logout)
			g.GET("/me/", cfg.AuthMiddleware.RequireAuth(), h.Me)
		}
	}

	return r
}
