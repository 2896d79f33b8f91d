package repos

import (
	"gorm.io/gorm"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos/auth"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos/content"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos/user"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/listing"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type SermonRepo = content.SermonRepo
type ResourceRepo = content.ResourceRepo
type SeriesRepo = content.SeriesRepo
type EventRepo = content.EventRepo
type DevotionRepo = content.DevotionRepo
type ReflectionRepo = content.ReflectionRepo
type PrayerRequestRepo = content.PrayerRequestRepo
type AnnouncementRepo = content.AnnouncementRepo
type LiveStreamRepo = content.LiveStreamRepo

type ListQuery = content.ListQuery

var ErrInvalidPage = content.ErrInvalidPage

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewSermonRepo(db *gorm.DB, baseLog *logger.Logger, cfg *listing.Config) SermonRepo {
	return content.NewSermonRepo(db, baseLog, cfg.For("sermons"))
}
func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger, cfg *listing.Config) ResourceRepo {
	return content.NewResourceRepo(db, baseLog, cfg.For("resources"))
}
func NewSeriesRepo(db *gorm.DB, baseLog *logger.Logger, cfg *listing.Config) SeriesRepo {
	return content.NewSeriesRepo(db, baseLog, cfg.For("series"))
}
func NewEventRepo(db *gorm.DB, baseLog *logger.Logger, cfg *listing.Config) EventRepo {
	return content.NewEventRepo(db, baseLog, cfg.For("events"))
}
func NewDevotionRepo(db *gorm.DB, baseLog *logger.Logger, cfg *listing.Config) DevotionRepo {
	return content.NewDevotionRepo(db, baseLog, cfg.For("devotions"))
}
func NewReflectionRepo(db *gorm.DB, baseLog *logger.Logger, cfg *listing.Config) ReflectionRepo {
	return content.NewReflectionRepo(db, baseLog, cfg.For("reflections"))
}
func NewPrayerRequestRepo(db *gorm.DB, baseLog *logger.Logger, cfg *listing.Config) PrayerRequestRepo {
	return content.NewPrayerRequestRepo(db, baseLog, cfg.For("prayer-requests"))
}
func NewAnnouncementRepo(db *gorm.DB, baseLog *logger.Logger, cfg *listing.Config) AnnouncementRepo {
	return content.NewAnnouncementRepo(db, baseLog, cfg.For("announcements"))
}
func NewLiveStreamRepo(db *gorm.DB, baseLog *logger.Logger, cfg *listing.Config) LiveStreamRepo {
	return content.NewLiveStreamRepo(db, baseLog, cfg.For("live-streams"))
}
