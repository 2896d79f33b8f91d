package content

import (
	"time"

	"github.com/google/uuid"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/normalization"
)

const (
	DefaultVideoLink = "https://www.youtube.com/watch?v=sjkrrmBnpGE&t=11s"
	DefaultPreacher  = "Pastor Obed Agyiri"
)

type Sermon struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null;column:title" json:"title"`
	Description string     `gorm:"size:700;not null;default:'';column:description" json:"description"`
	VideoLink   string     `gorm:"size:200;not null;column:video_link" json:"video_link"`
	Preacher    string     `gorm:"size:100;not null;column:preacher" json:"preacher"`
	PodcastLink string     `gorm:"size:200;not null;column:podcast_link" json:"podcast_link"`
	ResourceID  *uuid.UUID `gorm:"type:uuid;index;column:resource_id" json:"resource_id"`
	Resource    *Resource  `gorm:"foreignKey:ResourceID;references:ID;constraint:OnDelete:CASCADE" json:"resource,omitempty"`
	SeriesID    *uuid.UUID `gorm:"type:uuid;index;column:series_id" json:"series_id"`
	Series      *Series    `gorm:"foreignKey:SeriesID;references:ID;constraint:OnDelete:CASCADE" json:"series,omitempty"`
	Likes       int        `gorm:"not null;default:0;column:likes" json:"likes"`
	Comments    string     `gorm:"type:text;not null;default:'';column:comments" json:"comments"`
	Date        time.Time  `gorm:"not null;autoCreateTime;index;column:date" json:"date"`
}

func (Sermon) TableName() string { return "sermon" }

type Resource struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string              `gorm:"size:300;not null;column:name" json:"name"`
	PurchaseLink string              `gorm:"size:200;not null;default:'';column:purchase_link" json:"purchase_link"`
	Price        normalization.Price `gorm:"type:numeric(8,2);not null;default:0;column:price" json:"price"`
}

func (Resource) TableName() string { return "resource" }

type Series struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string       `gorm:"size:200;not null;column:title" json:"title"`
	Description string       `gorm:"size:700;not null;default:'';column:description" json:"description"`
	Image       string       `gorm:"size:255;not null;default:'';column:image" json:"image"`
	Likes       int          `gorm:"not null;default:0;column:likes" json:"likes"`
	Thoughts    []Reflection `gorm:"many2many:series_thoughts;joinForeignKey:SeriesID;joinReferences:ReflectionID" json:"thoughts,omitempty"`
	Date        time.Time    `gorm:"not null;autoCreateTime;column:date" json:"date"`
}

func (Series) TableName() string { return "series" }

// SeriesThought is the join row behind Series.Thoughts.
type SeriesThought struct {
	SeriesID     uuid.UUID `gorm:"type:uuid;primaryKey;column:series_id"`
	ReflectionID uuid.UUID `gorm:"type:uuid;primaryKey;column:reflection_id"`
}

func (SeriesThought) TableName() string { return "series_thoughts" }
