package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/contentflow-backend/internal/data/repos"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"github.com/yungbote/contentflow-backend/internal/progression"
)

type Repos struct {
	User     repos.UserRepo
	Series   repos.SeriesRepo
	Episode  repos.EpisodeRepo
	Sequence repos.SequenceRepo
	Weekly   repos.WeeklyContentRepo
	Daily    repos.DailyContentRepo

	Article        repos.ArticleRepo
	Affirmation    repos.AffirmationRepo
	Aphorism       repos.AphorismRepo
	Music          repos.MusicRepo
	Movie          repos.MovieRepo
	Task           repos.TaskRepo
	WeeklyQuestion repos.WeeklyQuestionRepo

	Access   repos.UserSeriesAccessRepo
	Progress repos.UserProgressRepo
	JobRun   repos.JobRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:     repos.NewUserRepo(db, log),
		Series:   repos.NewSeriesRepo(db, log),
		Episode:  repos.NewEpisodeRepo(db, log),
		Sequence: repos.NewSequenceRepo(db, log),
		Weekly:   repos.NewWeeklyContentRepo(db, log),
		Daily:    repos.NewDailyContentRepo(db, log),

		Article:        repos.NewArticleRepo(db, log),
		Affirmation:    repos.NewAffirmationRepo(db, log),
		Aphorism:       repos.NewAphorismRepo(db, log),
		Music:          repos.NewMusicRepo(db, log),
		Movie:          repos.NewMovieRepo(db, log),
		Task:           repos.NewTaskRepo(db, log),
		WeeklyQuestion: repos.NewWeeklyQuestionRepo(db, log),

		Access:   repos.NewUserSeriesAccessRepo(db, log),
		Progress: repos.NewUserProgressRepo(db, log),
		JobRun:   repos.NewJobRunRepo(db, log),
	}
}

// ProgressionStores narrows the repo set to the engine's ports.
func (r Repos) ProgressionStores() progression.Stores {
	return progression.Stores{
		Users:    r.User,
		Series:   r.Series,
		Episodes: r.Episode,
		Articles: r.Article,
		Weekly:   r.Weekly,
		Daily:    r.Daily,
		Sequence: r.Sequence,
		Access:   r.Access,
		Progress: r.Progress,
	}
}
