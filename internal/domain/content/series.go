package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Series struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	CoverURL    string         `gorm:"column:cover_url" json:"cover_url,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Series) TableName() string { return "series" }

func (s *Series) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Episode struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SeriesID       uuid.UUID      `gorm:"type:uuid;not null;column:series_id;uniqueIndex:idx_episode_series_seq,priority:1" json:"series_id"`
	SequenceNumber int            `gorm:"column:sequence_number;not null;uniqueIndex:idx_episode_series_seq,priority:2" json:"sequence_number"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	AudioURL       string         `gorm:"column:audio_url" json:"audio_url,omitempty"`
	DurationSec    int            `gorm:"column:duration_sec;not null;default:0" json:"duration_sec"`
	CreatedAt      time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Episode) TableName() string { return "episode" }

func (e *Episode) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
