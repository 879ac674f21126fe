package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WeeklyContent is the bundle unlocked for week WeekOrder. A nil link means
// no item of that kind carried the matching order.
type WeeklyContent struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WeekOrder        int        `gorm:"column:week_order;not null;uniqueIndex" json:"week_order"`
	MusicID          *uuid.UUID `gorm:"type:uuid;column:music_id" json:"music_id,omitempty"`
	MovieID          *uuid.UUID `gorm:"type:uuid;column:movie_id" json:"movie_id,omitempty"`
	TaskID           *uuid.UUID `gorm:"type:uuid;column:task_id" json:"task_id,omitempty"`
	WeeklyQuestionID *uuid.UUID `gorm:"type:uuid;column:weekly_question_id" json:"weekly_question_id,omitempty"`
	CreatedAt        time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (WeeklyContent) TableName() string { return "weekly_content" }

func (w *WeeklyContent) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

type DailyContent struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DayOrder      int        `gorm:"column:day_order;not null;uniqueIndex" json:"day_order"`
	AffirmationID *uuid.UUID `gorm:"type:uuid;column:affirmation_id" json:"affirmation_id,omitempty"`
	AphorismID    *uuid.UUID `gorm:"type:uuid;column:aphorism_id" json:"aphorism_id,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (DailyContent) TableName() string { return "daily_content" }

func (d *DailyContent) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
