package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ordered holds the columns every orderable content row shares. Order is
// assigned as max+1 on create and never renumbered.
type Ordered struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Order     int            `gorm:"column:sort_order;not null;index" json:"order"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (o *Ordered) GetID() uuid.UUID   { return o.ID }
func (o *Ordered) SetID(id uuid.UUID) { o.ID = id }
func (o *Ordered) GetOrder() int      { return o.Order }
func (o *Ordered) SetOrder(n int)     { o.Order = n }

func (o *Ordered) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type Affirmation struct {
	Ordered
	Text string `gorm:"column:text;type:text;not null" json:"text"`
}

func (Affirmation) TableName() string { return KindAffirmation.Table() }

type Aphorism struct {
	Ordered
	Text   string `gorm:"column:text;type:text;not null" json:"text"`
	Author string `gorm:"column:author" json:"author,omitempty"`
}

func (Aphorism) TableName() string { return KindAphorism.Table() }

type Music struct {
	Ordered
	Title  string `gorm:"column:title;not null" json:"title"`
	Artist string `gorm:"column:artist" json:"artist,omitempty"`
	URL    string `gorm:"column:url" json:"url,omitempty"`
}

func (Music) TableName() string { return KindMusic.Table() }

type Movie struct {
	Ordered
	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
	URL         string `gorm:"column:url" json:"url,omitempty"`
}

func (Movie) TableName() string { return KindMovie.Table() }

type Task struct {
	Ordered
	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
}

func (Task) TableName() string { return KindTask.Table() }

type WeeklyQuestion struct {
	Ordered
	Question string `gorm:"column:question;type:text;not null" json:"question"`
}

func (WeeklyQuestion) TableName() string { return KindWeeklyQuestion.Table() }

// Article N is the reading for week N.
type Article struct {
	Ordered
	Title string `gorm:"column:title;not null" json:"title"`
	Body  string `gorm:"column:body;type:text" json:"body,omitempty"`
}

func (Article) TableName() string { return KindArticle.Table() }
