package content

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type WeeklyContentRepo interface {
	MaxOrder(dbc dbctx.Context) (int, error)
	CreateMany(dbc dbctx.Context, rows []*types.WeeklyContent) (int, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.WeeklyContent, error)
	GetByOrder(dbc dbctx.Context, weekOrder int) (*types.WeeklyContent, error)
	ListAll(dbc dbctx.Context) ([]*types.WeeklyContent, error)
}

type weeklyContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeeklyContentRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyContentRepo {
	return &weeklyContentRepo{db: db, log: baseLog.With("repo", "WeeklyContentRepo")}
}

func (r *weeklyContentRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Context())
	}
	return r.db.WithContext(dbc.Context())
}

func (r *weeklyContentRepo) MaxOrder(dbc dbctx.Context) (int, error) {
	var max int
	if err := r.dbx(dbc).
		Model(&types.WeeklyContent{}).
		Select("COALESCE(MAX(week_order), 0)").
		Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("max week order: %w", err)
	}
	return max, nil
}

// CreateMany inserts bundles, ignoring week orders that already exist, and
// reports how many rows were written.
func (r *weeklyContentRepo) CreateMany(dbc dbctx.Context, rows []*types.WeeklyContent) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.dbx(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "week_order"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("create weekly content: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (r *weeklyContentRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.WeeklyContent, error) {
	var out []*types.WeeklyContent
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *weeklyContentRepo) GetByOrder(dbc dbctx.Context, weekOrder int) (*types.WeeklyContent, error) {
	var row types.WeeklyContent
	if err := r.dbx(dbc).
		Where("week_order = ?", weekOrder).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *weeklyContentRepo) ListAll(dbc dbctx.Context) ([]*types.WeeklyContent, error) {
	var out []*types.WeeklyContent
	if err := r.dbx(dbc).Order("week_order ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
