package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	datadb "github.com/yungbote/contentflow-backend/internal/data/db"
	"github.com/yungbote/contentflow-backend/internal/http"
	"github.com/yungbote/contentflow-backend/internal/observability"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"github.com/yungbote/contentflow-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Workers  Workers
	Metrics  *observability.Metrics
	Server   *http.Server

	dbService    *datadb.DatabaseService
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	metrics := observability.Init(log)

	dbs, err := datadb.NewDatabaseService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbs.DB()
	if err := datadb.AutoMigrateAll(theDB); err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)
	workers, err := wireWorkers(log, cfg, reposet, clients, serviceset, metrics)
	if err != nil {
		clients.Close()
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		Workers:      workers,
		Metrics:      metrics,
		Server:       wireHTTP(theDB, log, cfg, serviceset, metrics),
		dbService:    dbs,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and drives the background loops until ctx ends or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, ctx := errgroup.WithContext(ctx)

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
		a.Metrics.StartJobQueueCollector(ctx, a.Log, a.DB)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
		}
	}

	if err := a.Clients.Bus.StartForwarder(ctx, func(ev realtime.Event) {
		a.Log.Debug("progression event", "type", ev.Type, "user_id", ev.UserID)
	}); err != nil {
		a.Log.Warn("event forwarder not started", "error", err)
	}

	if a.Workers.Jobs != nil {
		a.Workers.Jobs.Start(ctx)
		g.Go(func() error {
			a.Workers.Jobs.Wait()
			return nil
		})
	}
	if a.Workers.Scheduler != nil {
		a.Workers.Scheduler.Start(ctx)
	}
	if a.Workers.Temporal != nil {
		g.Go(func() error {
			if err := a.Workers.Temporal.Start(ctx); err != nil && ctx.Err() == nil {
				a.Log.Error("Temporal worker failed; falling back to job scheduler", "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return a.Server.Run(ctx, ":"+a.Cfg.Port)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.otelShutdown(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
