package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Devotion struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string         `gorm:"size:200;not null;column:title" json:"title"`
	BibleVerse datatypes.JSON `gorm:"column:bible_verse" json:"bible_verse"`
	Content    string         `gorm:"type:text;not null;default:'';column:content" json:"content"`
	Thumbnail  string         `gorm:"size:255;not null;default:'';column:thumbnail" json:"thumbnail"`
	Reflection []Reflection   `gorm:"many2many:devotion_reflections;joinForeignKey:DevotionID;joinReferences:ReflectionID" json:"reflection,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`
}

func (Devotion) TableName() string { return "devotion" }

type DevotionReflection struct {
	DevotionID   uuid.UUID `gorm:"type:uuid;primaryKey;column:devotion_id"`
	ReflectionID uuid.UUID `gorm:"type:uuid;primaryKey;column:reflection_id"`
}

func (DevotionReflection) TableName() string { return "devotion_reflections" }

// Reflection is open commentary; DevotionID is a plain back-reference that is
// nulled when its devotion goes away.
type Reflection struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Author     string     `gorm:"size:100;not null;default:'';column:author" json:"author"`
	Content    string     `gorm:"type:text;not null;column:content" json:"content"`
	Likes      int        `gorm:"not null;default:0;column:likes" json:"likes"`
	Comments   string     `gorm:"type:text;not null;default:'';column:comments" json:"comments"`
	DevotionID *uuid.UUID `gorm:"type:uuid;index;column:devotion_id" json:"devotion_id"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime;index;column:created_at" json:"created_at"`
}

func (Reflection) TableName() string { return "reflection" }
