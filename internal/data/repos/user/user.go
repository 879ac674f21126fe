package user

import (
	"github.com/google/uuid"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error)
	GetByEmails(dbc dbctx.Context, emails []string) ([]*types.User, error)
	ListAll(dbc dbctx.Context) ([]*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	UpdateName(dbc dbctx.Context, userID uuid.UUID, firstName, lastName string) error
	UpdateRole(dbc dbctx.Context, userID uuid.UUID, role string) error
	UpdateWeeklyContentID(dbc dbctx.Context, userID uuid.UUID, weeklyContentID uuid.UUID) error
	UpdateDailyContentID(dbc dbctx.Context, userID uuid.UUID, dailyContentID uuid.UUID) error
	UpdateKeciTime(dbc dbctx.Context, userID uuid.UUID, keciTime string) (int64, error)
	Delete(dbc dbctx.Context, userID uuid.UUID) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (r *userRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Context())
	}
	return r.db.WithContext(dbc.Context())
}

func (r *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := r.dbx(dbc).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := r.dbx(dbc).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userRepo) GetByEmails(dbc dbctx.Context, emails []string) ([]*types.User, error) {
	var results []*types.User
	if len(emails) == 0 {
		return results, nil
	}
	if err := r.dbx(dbc).
		Where("email IN ?", emails).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userRepo) ListAll(dbc dbctx.Context) ([]*types.User, error) {
	var results []*types.User
	if err := r.dbx(dbc).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := r.dbx(dbc).
		Model(&types.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) UpdateName(dbc dbctx.Context, userID uuid.UUID, firstName, lastName string) error {
	return r.dbx(dbc).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"first_name": firstName,
			"last_name":  lastName,
		}).Error
}

func (r *userRepo) UpdateRole(dbc dbctx.Context, userID uuid.UUID, role string) error {
	return r.dbx(dbc).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("role", role).Error
}

func (r *userRepo) UpdateWeeklyContentID(dbc dbctx.Context, userID uuid.UUID, weeklyContentID uuid.UUID) error {
	return r.dbx(dbc).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("weekly_content_id", weeklyContentID).Error
}

func (r *userRepo) UpdateDailyContentID(dbc dbctx.Context, userID uuid.UUID, dailyContentID uuid.UUID) error {
	return r.dbx(dbc).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("daily_content_id", dailyContentID).Error
}

func (r *userRepo) UpdateKeciTime(dbc dbctx.Context, userID uuid.UUID, keciTime string) (int64, error) {
	res := r.dbx(dbc).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("keci_time", keciTime)
	return res.RowsAffected, res.Error
}

func (r *userRepo) Delete(dbc dbctx.Context, userID uuid.UUID) error {
	return r.dbx(dbc).
		Where("id = ?", userID).
		Delete(&types.User{}).Error
}
