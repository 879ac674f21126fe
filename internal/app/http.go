package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/contentflow-backend/internal/http"
	httpH "github.com/yungbote/contentflow-backend/internal/http/handlers"
	httpMW "github.com/yungbote/contentflow-backend/internal/http/middleware"
	"github.com/yungbote/contentflow-backend/internal/observability"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

func wireHTTP(db *gorm.DB, log *logger.Logger, cfg Config, s Services, metrics *observability.Metrics) *http.Server {
	log.Info("Wiring handlers...")
	return http.NewServer(log, http.RouterConfig{
		Log:         log,
		Metrics:     metrics,
		ServiceName: cfg.ServiceName,
		CORSOrigins: cfg.CORSOrigins,

		AuthMiddleware: httpMW.NewAuthMiddleware(log, s.Auth),

		HealthHandler:      httpH.NewHealthHandler(db),
		ProgressionHandler: httpH.NewProgressionHandler(s.Progression),
		JobHandler:         httpH.NewJobHandler(s.Jobs),
		ProgressHandler:    httpH.NewProgressHandler(s.Progress),
		SeriesHandler:      httpH.NewSeriesHandler(s.Series),
		UserHandler:        httpH.NewUserHandler(s.User),
		ContentHandlers:    httpH.ContentHandlers(s.Content),
	})
}
