package repos

import (
	"github.com/yungbote/contentflow-backend/internal/data/repos/access"
	"github.com/yungbote/contentflow-backend/internal/data/repos/content"
	"github.com/yungbote/contentflow-backend/internal/data/repos/jobs"
	"github.com/yungbote/contentflow-backend/internal/data/repos/progress"
	"github.com/yungbote/contentflow-backend/internal/data/repos/user"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	domaincontent "github.com/yungbote/contentflow-backend/internal/domain/content"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type SeriesRepo = content.SeriesRepo
type EpisodeRepo = content.EpisodeRepo
type SequenceRepo = content.SequenceRepo
type WeeklyContentRepo = content.WeeklyContentRepo
type DailyContentRepo = content.DailyContentRepo

type ArticleRepo = content.OrderedRepo[types.Article]
type AffirmationRepo = content.OrderedRepo[types.Affirmation]
type AphorismRepo = content.OrderedRepo[types.Aphorism]
type MusicRepo = content.OrderedRepo[types.Music]
type MovieRepo = content.OrderedRepo[types.Movie]
type TaskRepo = content.OrderedRepo[types.Task]
type WeeklyQuestionRepo = content.OrderedRepo[types.WeeklyQuestion]

type UserSeriesAccessRepo = access.UserSeriesAccessRepo
type UserProgressRepo = progress.UserProgressRepo

type JobRunRepo = jobs.JobRunRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewSeriesRepo(db *gorm.DB, baseLog *logger.Logger) SeriesRepo {
	return content.NewSeriesRepo(db, baseLog)
}
func NewEpisodeRepo(db *gorm.DB, baseLog *logger.Logger) EpisodeRepo {
	return content.NewEpisodeRepo(db, baseLog)
}
func NewSequenceRepo(db *gorm.DB, baseLog *logger.Logger) SequenceRepo {
	return content.NewSequenceRepo(db, baseLog)
}
func NewWeeklyContentRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyContentRepo {
	return content.NewWeeklyContentRepo(db, baseLog)
}
func NewDailyContentRepo(db *gorm.DB, baseLog *logger.Logger) DailyContentRepo {
	return content.NewDailyContentRepo(db, baseLog)
}

func NewArticleRepo(db *gorm.DB, baseLog *logger.Logger) ArticleRepo {
	return content.NewOrderedRepo[types.Article](db, baseLog, domaincontent.KindArticle)
}
func NewAffirmationRepo(db *gorm.DB, baseLog *logger.Logger) AffirmationRepo {
	return content.NewOrderedRepo[types.Affirmation](db, baseLog, domaincontent.KindAffirmation)
}
func NewAphorismRepo(db *gorm.DB, baseLog *logger.Logger) AphorismRepo {
	return content.NewOrderedRepo[types.Aphorism](db, baseLog, domaincontent.KindAphorism)
}
func NewMusicRepo(db *gorm.DB, baseLog *logger.Logger) MusicRepo {
	return content.NewOrderedRepo[types.Music](db, baseLog, domaincontent.KindMusic)
}
func NewMovieRepo(db *gorm.DB, baseLog *logger.Logger) MovieRepo {
	return content.NewOrderedRepo[types.Movie](db, baseLog, domaincontent.KindMovie)
}
func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return content.NewOrderedRepo[types.Task](db, baseLog, domaincontent.KindTask)
}
func NewWeeklyQuestionRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyQuestionRepo {
	return content.NewOrderedRepo[types.WeeklyQuestion](db, baseLog, domaincontent.KindWeeklyQuestion)
}

func NewUserSeriesAccessRepo(db *gorm.DB, baseLog *logger.Logger) UserSeriesAccessRepo {
	return access.NewUserSeriesAccessRepo(db, baseLog)
}
func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return progress.NewUserProgressRepo(db, baseLog)
}

func NewJobRunRepo(db *gorm.DB, baseLog *logger.Logger) JobRunRepo {
	return jobs.NewJobRunRepo(db, baseLog)
}
