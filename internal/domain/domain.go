package domain

import (
	"github.com/yungbote/contentflow-backend/internal/domain/access"
	"github.com/yungbote/contentflow-backend/internal/domain/content"
	"github.com/yungbote/contentflow-backend/internal/domain/jobs"
	"github.com/yungbote/contentflow-backend/internal/domain/progress"
	"github.com/yungbote/contentflow-backend/internal/domain/user"
)

type (
	User = user.User

	Series         = content.Series
	Episode        = content.Episode
	Article        = content.Article
	Affirmation    = content.Affirmation
	Aphorism       = content.Aphorism
	Music          = content.Music
	Movie          = content.Movie
	Task           = content.Task
	WeeklyQuestion = content.WeeklyQuestion
	WeeklyContent  = content.WeeklyContent
	DailyContent   = content.DailyContent

	UserSeriesAccess = access.UserSeriesAccess
	UserProgress     = progress.UserProgress

	JobRun = jobs.JobRun
)

// Models lists every table the service owns, in migration order.
func Models() []any {
	return []any{
		&User{},
		&Series{},
		&Episode{},
		&Article{},
		&Affirmation{},
		&Aphorism{},
		&Music{},
		&Movie{},
		&Task{},
		&WeeklyQuestion{},
		&WeeklyContent{},
		&DailyContent{},
		&UserSeriesAccess{},
		&UserProgress{},
		&JobRun{},
	}
}
