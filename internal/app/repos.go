package app

import (
	"gorm.io/gorm"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/listing"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	UserToken     repos.UserTokenRepo
	Sermon        repos.SermonRepo
	Resource      repos.ResourceRepo
	Series        repos.SeriesRepo
	Event         repos.EventRepo
	Devotion      repos.DevotionRepo
	Reflection    repos.ReflectionRepo
	PrayerRequest repos.PrayerRequestRepo
	Announcement  repos.AnnouncementRepo
	LiveStream    repos.LiveStreamRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger, listingCfg *listing.Config) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		UserToken:     repos.NewUserTokenRepo(db, log),
		Sermon:        repos.NewSermonRepo(db, log, listingCfg),
		Resource:      repos.NewResourceRepo(db, log, listingCfg),
		Series:        repos.NewSeriesRepo(db, log, listingCfg),
		Event:         repos.NewEventRepo(db, log, listingCfg),
		Devotion:      repos.NewDevotionRepo(db, log, listingCfg),
		Reflection:    repos.NewReflectionRepo(db, log, listingCfg),
		PrayerRequest: repos.NewPrayerRequestRepo(db, log, listingCfg),
		Announcement:  repos.NewAnnouncementRepo(db, log, listingCfg),
		LiveStream:    repos.NewLiveStreamRepo(db, log, listingCfg),
	}
}
