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

type DailyContentRepo interface {
	MaxOrder(dbc dbctx.Context) (int, error)
	CreateMany(dbc dbctx.Context, rows []*types.DailyContent) (int, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.DailyContent, error)
	GetByOrder(dbc dbctx.Context, dayOrder int) (*types.DailyContent, error)
	ListAll(dbc dbctx.Context) ([]*types.DailyContent, error)
}

type dailyContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyContentRepo(db *gorm.DB, baseLog *logger.Logger) DailyContentRepo {
	return &dailyContentRepo{db: db, log: baseLog.With("repo", "DailyContentRepo")}
}

func (r *dailyContentRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Context())
	}
	return r.db.WithContext(dbc.Context())
}

func (r *dailyContentRepo) MaxOrder(dbc dbctx.Context) (int, error) {
	var max int
	if err := r.dbx(dbc).
		Model(&types.DailyContent{}).
		Select("COALESCE(MAX(day_order), 0)").
		Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("max day order: %w", err)
	}
	return max, nil
}

// CreateMany inserts bundles, ignoring day orders that already exist, and
// reports how many rows were written.
func (r *dailyContentRepo) CreateMany(dbc dbctx.Context, rows []*types.DailyContent) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.dbx(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day_order"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("create daily content: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (r *dailyContentRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.DailyContent, error) {
	var out []*types.DailyContent
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dailyContentRepo) GetByOrder(dbc dbctx.Context, dayOrder int) (*types.DailyContent, error) {
	var row types.DailyContent
	if err := r.dbx(dbc).
		Where("day_order = ?", dayOrder).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *dailyContentRepo) ListAll(dbc dbctx.Context) ([]*types.DailyContent, error) {
	var out []*types.DailyContent
	if err := r.dbx(dbc).Order("day_order ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
