package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	domainprogress "github.com/yungbote/contentflow-backend/internal/domain/progress"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type UserProgressRepo interface {
	Upsert(dbc dbctx.Context, row *types.UserProgress) error
	Get(dbc dbctx.Context, userID uuid.UUID, kind domainprogress.TargetKind, targetID uuid.UUID) (*types.UserProgress, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserProgress, error)
	ListCompleted(dbc dbctx.Context, kind domainprogress.TargetKind) ([]*types.UserProgress, error)
	ListCompletedForUsers(dbc dbctx.Context, kind domainprogress.TargetKind, userIDs []uuid.UUID) ([]*types.UserProgress, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return &userProgressRepo{db: db, log: baseLog.With("repo", "UserProgressRepo")}
}

func (r *userProgressRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Context())
	}
	return r.db.WithContext(dbc.Context())
}

// Upsert records a fact keyed by (user, kind, target). Replays refresh the
// completion columns only.
func (r *userProgressRepo) Upsert(dbc dbctx.Context, row *types.UserProgress) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	return r.dbx(dbc).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "target_kind"},
				{Name: "target_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_completed",
				"complete_time",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *userProgressRepo) Get(dbc dbctx.Context, userID uuid.UUID, kind domainprogress.TargetKind, targetID uuid.UUID) (*types.UserProgress, error) {
	var row types.UserProgress
	if err := r.dbx(dbc).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userProgressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserProgress, error) {
	var out []*types.UserProgress
	if err := r.dbx(dbc).
		Where("user_id = ?", userID).
		Order("complete_time DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userProgressRepo) ListCompleted(dbc dbctx.Context, kind domainprogress.TargetKind) ([]*types.UserProgress, error) {
	var out []*types.UserProgress
	if err := r.dbx(dbc).
		Where("target_kind = ? AND is_completed = ?", kind, true).
		Order("user_id ASC, target_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userProgressRepo) ListCompletedForUsers(dbc dbctx.Context, kind domainprogress.TargetKind, userIDs []uuid.UUID) ([]*types.UserProgress, error) {
	var out []*types.UserProgress
	if len(userIDs) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).
		Where("target_kind = ? AND is_completed = ? AND user_id IN ?", kind, true, userIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
