package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type SeriesRepo interface {
	Create(dbc dbctx.Context, series []*types.Series) ([]*types.Series, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Series, error)
	ListAll(dbc dbctx.Context) ([]*types.Series, error)
	Save(dbc dbctx.Context, series *types.Series) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type seriesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSeriesRepo(db *gorm.DB, baseLog *logger.Logger) SeriesRepo {
	return &seriesRepo{db: db, log: baseLog.With("repo", "SeriesRepo")}
}

func (r *seriesRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Context())
	}
	return r.db.WithContext(dbc.Context())
}

func (r *seriesRepo) Create(dbc dbctx.Context, series []*types.Series) ([]*types.Series, error) {
	if len(series) == 0 {
		return []*types.Series{}, nil
	}
	if err := r.dbx(dbc).Create(&series).Error; err != nil {
		return nil, err
	}
	return series, nil
}

func (r *seriesRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Series, error) {
	var out []*types.Series
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *seriesRepo) ListAll(dbc dbctx.Context) ([]*types.Series, error) {
	var out []*types.Series
	if err := r.dbx(dbc).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *seriesRepo) Save(dbc dbctx.Context, series *types.Series) error {
	return r.dbx(dbc).Model(series).Select("*").Omit("id", "created_at", "deleted_at").Updates(series).Error
}

func (r *seriesRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return r.dbx(dbc).Where("id = ?", id).Delete(&types.Series{}).Error
}
