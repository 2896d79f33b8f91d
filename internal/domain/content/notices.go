package content

import (
	"time"

	"github.com/google/uuid"
)

type PrayerRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;column:name" json:"name"`
	Subject   string    `gorm:"type:text;not null;column:subject" json:"subject"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`
}

func (PrayerRequest) TableName() string { return "prayer_request" }

type Announcement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null;column:title" json:"title"`
	Content   string    `gorm:"type:text;not null;column:content" json:"content"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`
}

func (Announcement) TableName() string { return "announcement" }

type LiveStream struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null;column:title" json:"title"`
	Description string    `gorm:"type:text;not null;default:'';column:description" json:"description"`
	StreamLink  string    `gorm:"size:200;not null;column:stream_link" json:"stream_link"`
	Status      string    `gorm:"size:10;not null;default:'upcoming';column:status" json:"status"`
	Reactions   int       `gorm:"not null;default:0;column:reactions" json:"reactions"`
	Comments    string    `gorm:"type:text;not null;default:'';column:comments" json:"comments"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`
}

func (LiveStream) TableName() string { return "live_stream" }
