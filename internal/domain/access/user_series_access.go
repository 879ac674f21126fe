package access

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSeriesAccess records the highest unlocked position of one user on one
// target. For a series that is an episode sequence number; for the article
// track it is an article order.
type UserSeriesAccess struct {
	ID                        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                    uuid.UUID  `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_user_access_target,priority:1" json:"user_id"`
	TargetKey                 string     `gorm:"column:target_key;not null;uniqueIndex:idx_user_access_target,priority:2" json:"target_key"`
	TargetKind                TargetKind `gorm:"column:target_kind;not null;index" json:"target_kind"`
	SeriesID                  *uuid.UUID `gorm:"type:uuid;column:series_id;index" json:"series_id,omitempty"`
	ArticleID                 *uuid.UUID `gorm:"type:uuid;column:article_id" json:"article_id,omitempty"`
	CurrentAccessibleSequence int        `gorm:"column:current_accessible_sequence;not null;default:1" json:"current_accessible_sequence"`
	CreatedAt                 time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (UserSeriesAccess) TableName() string { return "user_series_access" }

func (a *UserSeriesAccess) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// New builds an access row for target with the given starting position.
func New(userID uuid.UUID, target Target, current int) *UserSeriesAccess {
	row := &UserSeriesAccess{
		UserID:                    userID,
		TargetKey:                 target.Key(),
		TargetKind:                target.Kind(),
		CurrentAccessibleSequence: current,
	}
	if id, ok := target.SeriesID(); ok {
		row.SeriesID = &id
	}
	return row
}

// Target reconstructs the typed target from the stored columns.
func (a *UserSeriesAccess) Target() Target {
	if a.TargetKind == TargetArticle {
		return ArticleTrack()
	}
	if a.SeriesID != nil {
		return SeriesTarget(*a.SeriesID)
	}
	t, err := ParseTarget(a.TargetKey)
	if err != nil {
		return Target{}
	}
	return t
}
