package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/contentflow-backend/internal/http/handlers"
	httpMW "github.com/yungbote/contentflow-backend/internal/http/middleware"
	"github.com/yungbote/contentflow-backend/internal/observability"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler      *httpH.HealthHandler
	ProgressionHandler *httpH.ProgressionHandler
	JobHandler         *httpH.JobHandler
	ProgressHandler    *httpH.ProgressHandler
	SeriesHandler      *httpH.SeriesHandler
	UserHandler        *httpH.UserHandler
	ContentHandlers    []httpH.Mounter
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Me
	if cfg.UserHandler != nil {
		api.GET("/me", cfg.UserHandler.GetMe)
	}
	if cfg.ProgressionHandler != nil {
		api.GET("/me/access", cfg.ProgressionHandler.MyAccess)
	}
	if cfg.ProgressHandler != nil {
		api.GET("/me/progress", cfg.ProgressHandler.MyProgress)
		api.POST("/progress/:kind/:id/complete", cfg.ProgressHandler.Complete)
	}

	// Series (read)
	if cfg.SeriesHandler != nil {
		api.GET("/series", cfg.SeriesHandler.ListSeries)
		api.GET("/series/:id", cfg.SeriesHandler.GetSeries)
		api.GET("/series/:id/episodes", cfg.SeriesHandler.ListEpisodes)
	}

	admin := api.Group("/admin")
	if cfg.AuthMiddleware != nil {
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
	}

	// Progression passes
	if cfg.ProgressionHandler != nil {
		pg := admin.Group("/progression")
		pg.POST("/reconcile", cfg.ProgressionHandler.Reconcile())
		pg.POST("/grant-access", cfg.ProgressionHandler.GrantAccess())
		pg.POST("/weekly-content", cfg.ProgressionHandler.WeeklyContent())
		pg.POST("/daily-content", cfg.ProgressionHandler.DailyContent())
		pg.POST("/daily-advance", cfg.ProgressionHandler.DailyAdvance())
		admin.POST("/users/:id/access", cfg.ProgressionHandler.GrantUserAccess)
	}

	// Jobs
	if cfg.JobHandler != nil {
		admin.POST("/jobs", cfg.JobHandler.Enqueue)
		admin.GET("/jobs", cfg.JobHandler.ListJobs)
		admin.GET("/jobs/:id", cfg.JobHandler.GetJob)
		admin.POST("/jobs/:id/cancel", cfg.JobHandler.CancelJob)
	}

	// Users
	if cfg.UserHandler != nil {
		admin.GET("/users", cfg.UserHandler.ListUsers)
		admin.POST("/users", cfg.UserHandler.CreateUser)
		admin.GET("/users/:id", cfg.UserHandler.GetUser)
		admin.PATCH("/users/:id", cfg.UserHandler.UpdateUser)
		admin.DELETE("/users/:id", cfg.UserHandler.DeleteUser)
		admin.PUT("/users/:id/keci-time", cfg.UserHandler.AddKeciTime)
	}

	// Series (write)
	if cfg.SeriesHandler != nil {
		admin.POST("/series", cfg.SeriesHandler.CreateSeries)
		admin.PUT("/series/:id", cfg.SeriesHandler.UpdateSeries)
		admin.DELETE("/series/:id", cfg.SeriesHandler.DeleteSeries)
		admin.POST("/series/:id/episodes", cfg.SeriesHandler.CreateEpisode)
		admin.PUT("/episodes/:id", cfg.SeriesHandler.UpdateEpisode)
		admin.DELETE("/episodes/:id", cfg.SeriesHandler.DeleteEpisode)
	}

	// Ordered content
	content := admin.Group("/content")
	for _, h := range cfg.ContentHandlers {
		h.Mount(content)
	}

	return r
}
