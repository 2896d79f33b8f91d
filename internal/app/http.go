package app

import (
	"github.com/gin-gonic/gin"

	domain "github.com/GyasiAmosKwadwo/elevation-church/internal/domain/content"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/http"
	httpH "github.com/GyasiAmosKwadwo/elevation-church/internal/http/handlers"
	httpMW "github.com/GyasiAmosKwadwo/elevation-church/internal/http/middleware"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/cache"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/media"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/policy"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/services"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/views"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health        *httpH.HealthHandler
	Auth          *httpH.AuthHandler
	Staff         *httpH.StaffHandler
	Reflections   *httpH.ReflectionHandler
	PrayerRequest *httpH.PrayerRequestHandler
	Collections   map[string]http.Collection
}

func wireHandlers(log *logger.Logger, cfg Config, svc Services, metrics *observability.Metrics, deps ...httpH.Dependency) Handlers {
	log.Info("Wiring handlers...")
	hc := func(entity, noun string) httpH.ContentHandlerConfig {
		return httpH.ContentHandlerConfig{
			Log:        log,
			Metrics:    metrics,
			Collection: entity,
			Noun:       noun,
			BaseURL:    cfg.PublicBaseURL,
		}
	}
	return Handlers{
		Health:        httpH.NewHealthHandler(log, deps...),
		Auth:          httpH.NewAuthHandler(log, svc.Auth),
		Staff:         httpH.NewStaffHandler(log, svc.Staff, metrics),
		Reflections:   httpH.NewReflectionHandler(log, svc.Reflection),
		PrayerRequest: httpH.NewPrayerRequestHandler(log, svc.PrayerRequest, metrics, cfg.PublicBaseURL),
		Collections: map[string]http.Collection{
			domain.EntitySermon: httpH.NewContentHandler[views.Sermon, services.SermonInput](
				hc(domain.EntitySermon, "sermon"), svc.Sermon, nil),
			domain.EntityResource: httpH.NewContentHandler[views.Resource, services.ResourceInput](
				hc(domain.EntityResource, "resource"), svc.Resource, nil),
			domain.EntitySeries: httpH.NewContentHandler[views.Series, services.SeriesInput](
				hc(domain.EntitySeries, "series"), svc.Series, httpH.AttachSeriesImage),
			domain.EntityEvent: httpH.NewContentHandler[views.Event, services.EventInput](
				hc(domain.EntityEvent, "event"), svc.Event, httpH.AttachEventFlyer),
			domain.EntityDevotion: httpH.NewContentHandler[views.Devotion, services.DevotionInput](
				hc(domain.EntityDevotion, "devotion"), svc.Devotion, httpH.AttachDevotionThumbnail),
			domain.EntityReflection: httpH.NewContentHandler[views.Reflection, services.ReflectionInput](
				hc(domain.EntityReflection, "reflection"), svc.Reflection, nil),
			domain.EntityAnnouncement: httpH.NewContentHandler[views.Announcement, services.AnnouncementInput](
				hc(domain.EntityAnnouncement, "announcement"), svc.Announcement, nil),
			domain.EntityLiveStream: httpH.NewContentHandler[views.LiveStream, services.LiveStreamInput](
				hc(domain.EntityLiveStream, "live stream"), svc.LiveStream, nil),
		},
	}
}

func wireMiddleware(log *logger.Logger, svc Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, svc.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, mw Middleware, c cache.Cache, metrics *observability.Metrics, store media.Store) *gin.Engine {
	rc := http.RouterConfig{
		Log:                  log,
		Policy:               policy.NewDefaultEngine(),
		Cache:                c,
		Metrics:              metrics,
		AuthMiddleware:       mw.Auth,
		CORSOrigins:          cfg.CORSOrigins,
		PublicBaseURL:        cfg.PublicBaseURL,
		Collections:          handlers.Collections,
		ReflectionHandler:    handlers.Reflections,
		PrayerRequestHandler: handlers.PrayerRequest,
		StaffHandler:         handlers.Staff,
		AuthHandler:          handlers.Auth,
		HealthHandler:        handlers.Health,
	}
	if observability.TracingEnabled() {
		rc.TracingService = cfg.ServiceName
	}
	// Local media is served by the API itself; bucket modes serve their own URLs.
	if dir, ok := localDir(store); ok && !media.IsAbsoluteURL(cfg.Media.PublicBaseURL) {
		rc.MediaDir = dir
		rc.MediaPath = cfg.Media.PublicBaseURL
	}
	return http.NewRouter(rc)
}
