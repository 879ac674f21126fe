package access

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	domainaccess "github.com/yungbote/contentflow-backend/internal/domain/access"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

const insertBatchSize = 500

type UserSeriesAccessRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID, target domainaccess.Target) (*types.UserSeriesAccess, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserSeriesAccess, error)
	ListByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.UserSeriesAccess, error)
	ListKeys(dbc dbctx.Context) ([]*types.UserSeriesAccess, error)
	Create(dbc dbctx.Context, rows []*types.UserSeriesAccess) ([]*types.UserSeriesAccess, error)
	BulkCreate(dbc dbctx.Context, rows []*types.UserSeriesAccess) (int, error)
	AdvanceFrom(dbc dbctx.Context, id uuid.UUID, expected int) (bool, error)
	Raise(dbc dbctx.Context, id uuid.UUID, to int, articleID *uuid.UUID) (bool, error)
	SetSequence(dbc dbctx.Context, id uuid.UUID, sequence int) error
	DeleteBySeries(dbc dbctx.Context, seriesID uuid.UUID) error
	DeleteByUser(dbc dbctx.Context, userID uuid.UUID) error
}

type userSeriesAccessRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSeriesAccessRepo(db *gorm.DB, baseLog *logger.Logger) UserSeriesAccessRepo {
	return &userSeriesAccessRepo{db: db, log: baseLog.With("repo", "UserSeriesAccessRepo")}
}

func (r *userSeriesAccessRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Context())
	}
	return r.db.WithContext(dbc.Context())
}

func (r *userSeriesAccessRepo) Get(dbc dbctx.Context, userID uuid.UUID, target domainaccess.Target) (*types.UserSeriesAccess, error) {
	var row types.UserSeriesAccess
	if err := r.dbx(dbc).
		Where("user_id = ? AND target_key = ?", userID, target.Key()).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userSeriesAccessRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserSeriesAccess, error) {
	var row types.UserSeriesAccess
	if err := r.dbx(dbc).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userSeriesAccessRepo) ListByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.UserSeriesAccess, error) {
	var out []*types.UserSeriesAccess
	if len(userIDs) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).
		Where("user_id IN ?", userIDs).
		Order("user_id ASC, target_key ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListKeys loads only user_id and target_key for every row, enough to diff
// against the full user x target matrix.
func (r *userSeriesAccessRepo) ListKeys(dbc dbctx.Context) ([]*types.UserSeriesAccess, error) {
	var out []*types.UserSeriesAccess
	if err := r.dbx(dbc).
		Select("user_id", "target_key").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userSeriesAccessRepo) Create(dbc dbctx.Context, rows []*types.UserSeriesAccess) ([]*types.UserSeriesAccess, error) {
	if len(rows) == 0 {
		return []*types.UserSeriesAccess{}, nil
	}
	if err := r.dbx(dbc).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// BulkCreate inserts in batches and silently skips (user_id, target_key)
// pairs that already exist. It returns the number of rows written.
func (r *userSeriesAccessRepo) BulkCreate(dbc dbctx.Context, rows []*types.UserSeriesAccess) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.dbx(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_key"}},
			DoNothing: true,
		}).
		CreateInBatches(&rows, insertBatchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("bulk create access: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// AdvanceFrom moves the row from expected to expected+1. It reports false
// when the row no longer holds expected.
func (r *userSeriesAccessRepo) AdvanceFrom(dbc dbctx.Context, id uuid.UUID, expected int) (bool, error) {
	res := r.dbx(dbc).
		Model(&types.UserSeriesAccess{}).
		Where("id = ? AND current_accessible_sequence = ?", id, expected).
		Updates(map[string]interface{}{
			"current_accessible_sequence": expected + 1,
			"updated_at":                  time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Raise sets the row to `to` only when that is an increase.
func (r *userSeriesAccessRepo) Raise(dbc dbctx.Context, id uuid.UUID, to int, articleID *uuid.UUID) (bool, error) {
	updates := map[string]interface{}{
		"current_accessible_sequence": to,
		"updated_at":                  time.Now(),
	}
	if articleID != nil {
		updates["article_id"] = *articleID
	}
	res := r.dbx(dbc).
		Model(&types.UserSeriesAccess{}).
		Where("id = ? AND current_accessible_sequence < ?", id, to).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetSequence is the unconditional admin override.
func (r *userSeriesAccessRepo) SetSequence(dbc dbctx.Context, id uuid.UUID, sequence int) error {
	return r.dbx(dbc).
		Model(&types.UserSeriesAccess{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_accessible_sequence": sequence,
			"updated_at":                  time.Now(),
		}).Error
}

func (r *userSeriesAccessRepo) DeleteBySeries(dbc dbctx.Context, seriesID uuid.UUID) error {
	return r.dbx(dbc).
		Where("series_id = ?", seriesID).
		Delete(&types.UserSeriesAccess{}).Error
}

func (r *userSeriesAccessRepo) DeleteByUser(dbc dbctx.Context, userID uuid.UUID) error {
	return r.dbx(dbc).
		Where("user_id = ?", userID).
		Delete(&types.UserSeriesAccess{}).Error
}
