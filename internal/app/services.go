package app

import (
	"gorm.io/gorm"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/observability"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"github.com/yungbote/contentflow-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Progression services.ProgressionService
	User        services.UserService
	Series      services.SeriesService
	Progress    services.ProgressService
	Jobs        services.JobService
	Content     services.ContentServices
	Catalog     services.CatalogService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	progression := services.NewProgressionService(services.ProgressionServiceDeps{
		DB:      db,
		Log:     log,
		Stores:  r.ProgressionStores(),
		Access:  r.Access,
		Locker:  c.Locker,
		Bus:     c.Bus,
		Metrics: metrics,
		LockTTL: cfg.PassLockTTL,
	})
	users := services.NewUserService(db, log, r.User, r.Access, progression)
	series := services.NewSeriesService(db, log, r.Series, r.Episode, r.Access, progression)
	content := services.ContentServices{
		Articles:        services.NewContentService[types.Article](db, log, r.Article, progression),
		Affirmations:    services.NewContentService[types.Affirmation](db, log, r.Affirmation, progression),
		Aphorisms:       services.NewContentService[types.Aphorism](db, log, r.Aphorism, progression),
		Music:           services.NewContentService[types.Music](db, log, r.Music, progression),
		Movies:          services.NewContentService[types.Movie](db, log, r.Movie, progression),
		Tasks:           services.NewContentService[types.Task](db, log, r.Task, progression),
		WeeklyQuestions: services.NewContentService[types.WeeklyQuestion](db, log, r.WeeklyQuestion, progression),
	}
	return Services{
		Auth:        services.NewAuthService(log, cfg.JWTSecretKey),
		Progression: progression,
		User:        users,
		Series:      series,
		Progress:    services.NewProgressService(db, log, r.Progress, r.User, r.Episode, r.Article, r.Weekly, progression),
		Jobs:        services.NewJobService(db, log, r.JobRun),
		Content:     content,
		Catalog:     services.NewCatalogService(db, log, users, series, content),
	}
}
