package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff account. Only superusers manage these rows.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"size:150;uniqueIndex;not null;column:username" json:"username"`
	Email       string    `gorm:"size:254;not null;default:'';column:email" json:"email"`
	Password    string    `gorm:"not null;column:password" json:"-"`
	IsStaff     bool      `gorm:"not null;default:false;column:is_staff" json:"is_staff"`
	IsSuperuser bool      `gorm:"not null;default:false;column:is_superuser" json:"is_superuser"`
	IsActive    bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	DateJoined  time.Time `gorm:"not null;autoCreateTime;column:date_joined" json:"date_joined"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
