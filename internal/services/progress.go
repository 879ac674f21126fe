package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/contentflow-backend/internal/data/repos"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	domainprogress "github.com/yungbote/contentflow-backend/internal/domain/progress"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

// ProgressService records completion facts. Access only moves when the next
// reconciliation pass reads them.
type ProgressService interface {
	Complete(dbc dbctx.Context, userID uuid.UUID, kind domainprogress.TargetKind, targetID uuid.UUID) (*types.UserProgress, error)
	ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserProgress, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progressRepo repos.UserProgressRepo
	userRepo     repos.UserRepo
	episodeRepo  repos.EpisodeRepo
	articleRepo  repos.ArticleRepo
	weeklyRepo   repos.WeeklyContentRepo
	progression  ProgressionService
	now          func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	progressRepo repos.UserProgressRepo,
	userRepo repos.UserRepo,
	episodeRepo repos.EpisodeRepo,
	articleRepo repos.ArticleRepo,
	weeklyRepo repos.WeeklyContentRepo,
	progression ProgressionService,
) ProgressService {
	return &progressService{
		db:           db,
		log:          baseLog.With("service", "ProgressService"),
		progressRepo: progressRepo,
		userRepo:     userRepo,
		episodeRepo:  episodeRepo,
		articleRepo:  articleRepo,
		weeklyRepo:   weeklyRepo,
		progression:  progression,
		now:          time.Now,
	}
}

func (s *progressService) targetExists(dbc dbctx.Context, kind domainprogress.TargetKind, id uuid.UUID) (bool, error) {
	switch kind {
	case domainprogress.TargetEpisode:
		found, err := s.episodeRepo.GetByIDs(dbc, []uuid.UUID{id})
		return len(found) > 0, err
	case domainprogress.TargetArticle:
		found, err := s.articleRepo.GetByIDs(dbc, []uuid.UUID{id})
		return len(found) > 0, err
	case domainprogress.TargetWeek:
		found, err := s.weeklyRepo.GetByIDs(dbc, []uuid.UUID{id})
		return len(found) > 0, err
	default:
		return false, fmt.Errorf("unknown target kind %q: %w", kind, pkgerrors.ErrInvalidArgument)
	}
}

// Complete upserts the completion. Repeating it only refreshes the
// timestamp. A finished article also brings the user's article track up to
// their current week; series and week frontiers move on the next pass.
func (s *progressService) Complete(dbc dbctx.Context, userID uuid.UUID, kind domainprogress.TargetKind, targetID uuid.UUID) (*types.UserProgress, error) {
	if userID == uuid.Nil || targetID == uuid.Nil {
		return nil, fmt.Errorf("missing user or target id: %w", pkgerrors.ErrInvalidArgument)
	}
	users, err := s.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, pkgerrors.ErrNotFound)
	}
	ok, err := s.targetExists(dbc, kind, targetID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", kind, targetID, pkgerrors.ErrNotFound)
	}

	row := domainprogress.Completed(userID, kind, targetID, s.now())
	if err := s.progressRepo.Upsert(dbc, row); err != nil {
		return nil, fmt.Errorf("record completion: %w", err)
	}
	stored, err := s.progressRepo.Get(dbc, userID, kind, targetID)
	if err != nil {
		return nil, err
	}
	if kind == domainprogress.TargetArticle && s.progression != nil {
		if _, err := s.progression.UpdateArticleAccessForUser(dbc, userID); err != nil {
			return nil, fmt.Errorf("sync article track: %w", err)
		}
	}
	s.log.Debug("completion recorded", "user_id", userID, "kind", kind, "target_id", targetID)
	return stored, nil
}

func (s *progressService) ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserProgress, error) {
	return s.progressRepo.ListByUser(dbc, userID)
}
