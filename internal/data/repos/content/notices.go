package content

import (
	"gorm.io/gorm"

	types "github.com/GyasiAmosKwadwo/elevation-church/internal/domain"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/listing"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
)

type EventRepo = Repo[types.Event]
type PrayerRequestRepo = Repo[types.PrayerRequest]
type AnnouncementRepo = Repo[types.Announcement]
type LiveStreamRepo = Repo[types.LiveStream]

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger, rules listing.Entity) EventRepo {
	return newStore[types.Event](db, baseLog, "EventRepo", "event", rules)
}

func NewPrayerRequestRepo(db *gorm.DB, baseLog *logger.Logger, rules listing.Entity) PrayerRequestRepo {
	return newStore[types.PrayerRequest](db, baseLog, "PrayerRequestRepo", "prayer_request", rules)
}

func NewAnnouncementRepo(db *gorm.DB, baseLog *logger.Logger, rules listing.Entity) AnnouncementRepo {
	return newStore[types.Announcement](db, baseLog, "AnnouncementRepo", "announcement", rules)
}

func NewLiveStreamRepo(db *gorm.DB, baseLog *logger.Logger, rules listing.Entity) LiveStreamRepo {
	return newStore[types.LiveStream](db, baseLog, "LiveStreamRepo", "live_stream", rules)
}
