package app

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/cache"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/media"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/relations"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/services"
)

type Services struct {
	Artwork services.ArtworkService

	// Auth + staff accounts
	Auth  services.AuthService
	Staff services.StaffService

	// Content
	Sermon        services.SermonService
	Resource      services.ResourceService
	Series        services.SeriesService
	Event         services.EventService
	Devotion      services.DevotionService
	Reflection    services.ReflectionService
	PrayerRequest services.PrayerRequestService
	Announcement  services.AnnouncementService
	LiveStream    services.LiveStreamService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, store media.Store, c cache.Cache) (Services, error) {
	log.Info("Wiring services...")

	artwork, err := services.NewArtworkService(log, store, cfg.ColorsPath)
	if err != nil {
		return Services{}, fmt.Errorf("init artwork service: %w", err)
	}

	authService := services.NewAuthService(
		db,
		log,
		repos.User,
		repos.UserToken,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	return Services{
		Artwork: artwork,
		Auth:    authService,
		Staff:   services.NewStaffService(db, log, repos.User),

		Sermon: services.NewSermonService(db, log, repos.Sermon, repos.Resource, repos.Series, c,
			relations.NewLinker(cfg.linkBase())),
		Resource:      services.NewResourceService(db, log, repos.Resource, c),
		Series:        services.NewSeriesService(db, log, repos.Series, repos.Sermon, repos.Reflection, artwork, c),
		Event:         services.NewEventService(db, log, repos.Event, artwork, c, time.Now),
		Devotion:      services.NewDevotionService(db, log, repos.Devotion, repos.Reflection, artwork, c),
		Reflection:    services.NewReflectionService(db, log, repos.Reflection, repos.Devotion, c),
		PrayerRequest: services.NewPrayerRequestService(db, log, repos.PrayerRequest, c),
		Announcement:  services.NewAnnouncementService(db, log, repos.Announcement, c),
		LiveStream:    services.NewLiveStreamService(db, log, repos.LiveStream, c),
	}, nil
}
