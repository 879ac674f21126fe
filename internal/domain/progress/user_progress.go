package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TargetKind string

const (
	TargetEpisode TargetKind = "episode"
	TargetArticle TargetKind = "article"
	TargetWeek    TargetKind = "week"
)

// UserProgress is a completion fact. Recording the same completion twice
// refreshes CompleteTime and nothing else.
type UserProgress struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_user_progress_target,priority:1" json:"user_id"`
	TargetKind   TargetKind `gorm:"column:target_kind;not null;uniqueIndex:idx_user_progress_target,priority:2;index" json:"target_kind"`
	TargetID     uuid.UUID  `gorm:"type:uuid;not null;column:target_id;uniqueIndex:idx_user_progress_target,priority:3" json:"target_id"`
	IsCompleted  bool       `gorm:"column:is_completed;not null;default:false;index" json:"is_completed"`
	CompleteTime *time.Time `gorm:"column:complete_time" json:"complete_time,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

func (p *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func Completed(userID uuid.UUID, kind TargetKind, targetID uuid.UUID, at time.Time) *UserProgress {
	t := at.UTC()
	return &UserProgress{
		UserID:       userID,
		TargetKind:   kind,
		TargetID:     targetID,
		IsCompleted:  true,
		CompleteTime: &t,
	}
}
