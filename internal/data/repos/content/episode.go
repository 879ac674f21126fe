package content

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type EpisodeRepo interface {
	Create(dbc dbctx.Context, episode *types.Episode) (*types.Episode, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Episode, error)
	ListBySeries(dbc dbctx.Context, seriesID uuid.UUID) ([]*types.Episode, error)
	MaxSequence(dbc dbctx.Context, seriesID uuid.UUID) (int, error)
	Save(dbc dbctx.Context, episode *types.Episode) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type episodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEpisodeRepo(db *gorm.DB, baseLog *logger.Logger) EpisodeRepo {
	return &episodeRepo{db: db, log: baseLog.With("repo", "EpisodeRepo")}
}

func (r *episodeRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Context())
	}
	return r.db.WithContext(dbc.Context())
}

// Create assigns SequenceNumber = max within the series + 1. The unique
// (series_id, sequence_number) index rejects a concurrent duplicate.
func (r *episodeRepo) Create(dbc dbctx.Context, episode *types.Episode) (*types.Episode, error) {
	if episode == nil || episode.SeriesID == uuid.Nil {
		return nil, fmt.Errorf("create episode: missing series id")
	}
	max, err := r.MaxSequence(dbc, episode.SeriesID)
	if err != nil {
		return nil, err
	}
	episode.SequenceNumber = max + 1
	if err := r.dbx(dbc).Create(episode).Error; err != nil {
		return nil, fmt.Errorf("create episode: %w", err)
	}
	return episode, nil
}

func (r *episodeRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Episode, error) {
	var out []*types.Episode
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *episodeRepo) ListBySeries(dbc dbctx.Context, seriesID uuid.UUID) ([]*types.Episode, error) {
	var out []*types.Episode
	if err := r.dbx(dbc).
		Where("series_id = ?", seriesID).
		Order("sequence_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MaxSequence counts soft-deleted episodes too so numbers are never reused.
func (r *episodeRepo) MaxSequence(dbc dbctx.Context, seriesID uuid.UUID) (int, error) {
	var max int
	if err := r.dbx(dbc).
		Unscoped().
		Model(&types.Episode{}).
		Where("series_id = ?", seriesID).
		Select("COALESCE(MAX(sequence_number), 0)").
		Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("max sequence: %w", err)
	}
	return max, nil
}

func (r *episodeRepo) Save(dbc dbctx.Context, episode *types.Episode) error {
	return r.dbx(dbc).
		Model(episode).
		Select("*").
		Omit("id", "series_id", "sequence_number", "created_at", "deleted_at").
		Updates(episode).Error
}

func (r *episodeRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return r.dbx(dbc).Where("id = ?", id).Delete(&types.Episode{}).Error
}
