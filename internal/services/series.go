package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	datadb "github.com/yungbote/contentflow-backend/internal/data/db"
	"github.com/yungbote/contentflow-backend/internal/data/repos"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type SeriesService interface {
	CreateSeries(dbc dbctx.Context, series *types.Series) (*types.Series, error)
	GetSeries(dbc dbctx.Context, id uuid.UUID) (*types.Series, error)
	ListSeries(dbc dbctx.Context) ([]*types.Series, error)
	UpdateSeries(dbc dbctx.Context, id uuid.UUID, series *types.Series) (*types.Series, error)
	DeleteSeries(dbc dbctx.Context, id uuid.UUID) error

	CreateEpisode(dbc dbctx.Context, seriesID uuid.UUID, episode *types.Episode) (*types.Episode, error)
	ListEpisodes(dbc dbctx.Context, seriesID uuid.UUID) ([]*types.Episode, error)
	UpdateEpisode(dbc dbctx.Context, id uuid.UUID, episode *types.Episode) (*types.Episode, error)
	DeleteEpisode(dbc dbctx.Context, id uuid.UUID) error
}

type seriesService struct {
	db          *gorm.DB
	log         *logger.Logger
	seriesRepo  repos.SeriesRepo
	episodeRepo repos.EpisodeRepo
	accessRepo  repos.UserSeriesAccessRepo
	progression ProgressionService
}

func NewSeriesService(
	db *gorm.DB,
	baseLog *logger.Logger,
	seriesRepo repos.SeriesRepo,
	episodeRepo repos.EpisodeRepo,
	accessRepo repos.UserSeriesAccessRepo,
	progression ProgressionService,
) SeriesService {
	return &seriesService{
		db:          db,
		log:         baseLog.With("service", "SeriesService"),
		seriesRepo:  seriesRepo,
		episodeRepo: episodeRepo,
		accessRepo:  accessRepo,
		progression: progression,
	}
}

// CreateSeries stores the series and opens it to every existing user at
// episode 1.
func (s *seriesService) CreateSeries(dbc dbctx.Context, series *types.Series) (*types.Series, error) {
	if series == nil {
		return nil, fmt.Errorf("missing body: %w", pkgerrors.ErrInvalidArgument)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	series.ID = uuid.Nil

	err := withTx(dbc, s.db, func(inner dbctx.Context) error {
		if _, err := s.seriesRepo.Create(inner, []*types.Series{series}); err != nil {
			return fmt.Errorf("create series: %w", err)
		}
		sum, err := s.progression.GrantAccessForSeries(inner, series.ID)
		if err != nil {
			return fmt.Errorf("grant series access: %w", err)
		}
		s.log.Info("series created", "series_id", series.ID, "granted", sum.GrantedCount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

func (s *seriesService) GetSeries(dbc dbctx.Context, id uuid.UUID) (*types.Series, error) {
	found, err := s.seriesRepo.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("series %s: %w", id, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}

func (s *seriesService) ListSeries(dbc dbctx.Context) ([]*types.Series, error) {
	return s.seriesRepo.ListAll(dbc)
}

func (s *seriesService) UpdateSeries(dbc dbctx.Context, id uuid.UUID, series *types.Series) (*types.Series, error) {
	if series == nil {
		return nil, fmt.Errorf("missing body: %w", pkgerrors.ErrInvalidArgument)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.GetSeries(dbc, id)
	if err != nil {
		return nil, err
	}
	series.ID = id
	series.CreatedAt = existing.CreatedAt
	if err := s.seriesRepo.Save(dbc, series); err != nil {
		return nil, fmt.Errorf("update series: %w", err)
	}
	return series, nil
}

// DeleteSeries soft-deletes the series and drops its access rows.
func (s *seriesService) DeleteSeries(dbc dbctx.Context, id uuid.UUID) error {
	return withTx(dbc, s.db, func(inner dbctx.Context) error {
		if _, err := s.GetSeries(inner, id); err != nil {
			return err
		}
		if err := s.accessRepo.DeleteBySeries(inner, id); err != nil {
			return fmt.Errorf("delete series access: %w", err)
		}
		return s.seriesRepo.Delete(inner, id)
	})
}

// CreateEpisode appends the episode at the end of the series.
func (s *seriesService) CreateEpisode(dbc dbctx.Context, seriesID uuid.UUID, episode *types.Episode) (*types.Episode, error) {
	if episode == nil {
		return nil, fmt.Errorf("missing body: %w", pkgerrors.ErrInvalidArgument)
	}
	if err := episode.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetSeries(dbc, seriesID); err != nil {
		return nil, err
	}
	episode.ID = uuid.Nil
	episode.SeriesID = seriesID

	created, err := s.episodeRepo.Create(dbc, episode)
	if err != nil {
		if datadb.IsUniqueViolation(err, "idx_episode_series_seq") {
			return nil, fmt.Errorf("episode sequence taken concurrently: %w", pkgerrors.ErrConflict)
		}
		return nil, err
	}
	s.log.Info("episode created", "series_id", seriesID, "episode_id", created.ID, "sequence", created.SequenceNumber)
	return created, nil
}

func (s *seriesService) ListEpisodes(dbc dbctx.Context, seriesID uuid.UUID) ([]*types.Episode, error) {
	if _, err := s.GetSeries(dbc, seriesID); err != nil {
		return nil, err
	}
	return s.episodeRepo.ListBySeries(dbc, seriesID)
}

func (s *seriesService) getEpisode(dbc dbctx.Context, id uuid.UUID) (*types.Episode, error) {
	found, err := s.episodeRepo.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("episode %s: %w", id, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}

// UpdateEpisode edits metadata only; the series and sequence number are
// fixed at creation.
func (s *seriesService) UpdateEpisode(dbc dbctx.Context, id uuid.UUID, episode *types.Episode) (*types.Episode, error) {
	if episode == nil {
		return nil, fmt.Errorf("missing body: %w", pkgerrors.ErrInvalidArgument)
	}
	if err := episode.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.getEpisode(dbc, id)
	if err != nil {
		return nil, err
	}
	episode.ID = id
	episode.SeriesID = existing.SeriesID
	episode.SequenceNumber = existing.SequenceNumber
	episode.CreatedAt = existing.CreatedAt
	if err := s.episodeRepo.Save(dbc, episode); err != nil {
		return nil, fmt.Errorf("update episode: %w", err)
	}
	return episode, nil
}

func (s *seriesService) DeleteEpisode(dbc dbctx.Context, id uuid.UUID) error {
	if _, err := s.getEpisode(dbc, id); err != nil {
		return err
	}
	return s.episodeRepo.Delete(dbc, id)
}
