package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName  string    `gorm:"not null;column:last_name" json:"last_name"`
	Role      string    `gorm:"not null;column:role;default:'user'" json:"role"`

	// Position on the weekly bundle track. Nil means the user has not been
	// moved yet and is on week 1.
	WeeklyContentID *uuid.UUID `gorm:"type:uuid;column:weekly_content_id;index" json:"weekly_content_id,omitempty"`
	DailyContentID  *uuid.UUID `gorm:"type:uuid;column:daily_content_id;index" json:"daily_content_id,omitempty"`

	// Preferred daily delivery time, HH:MM.
	KeciTime *string `gorm:"column:keci_time" json:"keci_time,omitempty"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
