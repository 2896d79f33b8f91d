package content

import (
	"time"

	"github.com/google/uuid"
)

const DefaultEventName = "Congregational meeting"

type Event struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:200;not null;column:name" json:"name"`
	Description string     `gorm:"type:text;not null;default:'';column:description" json:"description"`
	Flyer       string     `gorm:"size:255;not null;default:'';column:flyer" json:"flyer"`
	Location    string     `gorm:"size:200;not null;default:'';column:location" json:"location"`
	Date        *time.Time `gorm:"type:date;column:date" json:"date"`
	Days        int        `gorm:"not null;default:1;column:days" json:"days"`
	StartTime   *string    `gorm:"size:8;column:start_time" json:"start_time"`
	EndTime     *string    `gorm:"size:8;column:end_time" json:"end_time"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`
}

func (Event) TableName() string { return "event" }
