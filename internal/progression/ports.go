package progression

import (
	"github.com/google/uuid"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/domain/access"
	"github.com/yungbote/contentflow-backend/internal/domain/content"
	"github.com/yungbote/contentflow-backend/internal/domain/progress"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
)

// The engine reads and writes through these narrow views; the gorm repos in
// internal/data/repos satisfy them.

type SequenceStore interface {
	MaxOrders(dbc dbctx.Context, kinds []content.Kind) (map[content.Kind]int, error)
	IDsByOrderRange(dbc dbctx.Context, kind content.Kind, after, upTo int) (map[int]uuid.UUID, error)
}

type BundleStore[B any] interface {
	MaxOrder(dbc dbctx.Context) (int, error)
	CreateMany(dbc dbctx.Context, rows []*B) (int, error)
}

type WeeklyContentStore interface {
	BundleStore[types.WeeklyContent]
	ListAll(dbc dbctx.Context) ([]*types.WeeklyContent, error)
}

type DailyContentStore interface {
	BundleStore[types.DailyContent]
	ListAll(dbc dbctx.Context) ([]*types.DailyContent, error)
}

type AccessStore interface {
	Get(dbc dbctx.Context, userID uuid.UUID, target access.Target) (*types.UserSeriesAccess, error)
	ListByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.UserSeriesAccess, error)
	ListKeys(dbc dbctx.Context) ([]*types.UserSeriesAccess, error)
	BulkCreate(dbc dbctx.Context, rows []*types.UserSeriesAccess) (int, error)
	AdvanceFrom(dbc dbctx.Context, id uuid.UUID, expected int) (bool, error)
	Raise(dbc dbctx.Context, id uuid.UUID, to int, articleID *uuid.UUID) (bool, error)
}

type ProgressStore interface {
	ListCompleted(dbc dbctx.Context, kind progress.TargetKind) ([]*types.UserProgress, error)
	ListCompletedForUsers(dbc dbctx.Context, kind progress.TargetKind, userIDs []uuid.UUID) ([]*types.UserProgress, error)
}

type EpisodeStore interface {
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Episode, error)
}

type SeriesStore interface {
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Series, error)
	ListAll(dbc dbctx.Context) ([]*types.Series, error)
}

type ArticleStore interface {
	GetByOrder(dbc dbctx.Context, order int) (*types.Article, error)
	ListOrdered(dbc dbctx.Context) ([]*types.Article, error)
}

type UserStore interface {
	GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error)
	ListAll(dbc dbctx.Context) ([]*types.User, error)
	UpdateWeeklyContentID(dbc dbctx.Context, userID uuid.UUID, weeklyContentID uuid.UUID) error
	UpdateDailyContentID(dbc dbctx.Context, userID uuid.UUID, dailyContentID uuid.UUID) error
}

// Stores groups every collaborator the engine needs.
type Stores struct {
	Users    UserStore
	Series   SeriesStore
	Episodes EpisodeStore
	Articles ArticleStore
	Weekly   WeeklyContentStore
	Daily    DailyContentStore
	Sequence SequenceStore
	Access   AccessStore
	Progress ProgressStore
}
