package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity names used by policy, listing config and cache namespaces.
const (
	EntitySermon        = "sermons"
	EntityResource      = "resources"
	EntitySeries        = "series"
	EntityEvent         = "events"
	EntityDevotion      = "devotions"
	EntityReflection    = "reflections"
	EntityPrayerRequest = "prayer-requests"
	EntityAnnouncement  = "announcements"
	EntityLiveStream    = "live-streams"
	EntityStaff         = "admins"
)

// ensureID assigns a random v4 id when the caller left it unset.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (s *Sermon) BeforeCreate(*gorm.DB) error        { ensureID(&s.ID); return nil }
func (r *Resource) BeforeCreate(*gorm.DB) error      { ensureID(&r.ID); return nil }
func (s *Series) BeforeCreate(*gorm.DB) error        { ensureID(&s.ID); return nil }
func (e *Event) BeforeCreate(*gorm.DB) error         { ensureID(&e.ID); return nil }
func (d *Devotion) BeforeCreate(*gorm.DB) error      { ensureID(&d.ID); return nil }
func (r *Reflection) BeforeCreate(*gorm.DB) error    { ensureID(&r.ID); return nil }
func (p *PrayerRequest) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }
func (a *Announcement) BeforeCreate(*gorm.DB) error  { ensureID(&a.ID); return nil }
func (l *LiveStream) BeforeCreate(*gorm.DB) error    { ensureID(&l.ID); return nil }
