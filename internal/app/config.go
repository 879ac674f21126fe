package app

import (
	"time"

	datadb "github.com/yungbote/contentflow-backend/internal/data/db"
	"github.com/yungbote/contentflow-backend/internal/jobs/worker"
	"github.com/yungbote/contentflow-backend/internal/platform/envutil"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"github.com/yungbote/contentflow-backend/internal/temporalx"
)

type Config struct {
	Port        string
	ServiceName string
	Environment string
	Version     string

	DB datadb.Config

	JWTSecretKey string
	CORSOrigins  []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	EventChannel  string
	PassLockTTL   time.Duration

	RunWorker bool
	Worker    worker.Config

	// Scheduler intervals; zero disables a schedule.
	ReconcileInterval     time.Duration
	WeeklyContentInterval time.Duration
	DailyContentInterval  time.Duration
	DailyAdvanceInterval  time.Duration

	Temporal temporalx.Config

	// Metrics are switched on by METRICS_ENABLED inside observability.Init.
	MetricsAddr string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "contentflow-backend"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),

		DB: datadb.Config{
			Driver:           envutil.String("DB_DRIVER", datadb.DriverPostgres),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "contentflow"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "contentflow.db"),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 20),
			SlowQuery:        envutil.Seconds("DB_SLOW_QUERY_SECONDS", time.Second),
		},

		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		CORSOrigins:  envutil.List("CORS_ALLOWED_ORIGINS", nil),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),
		EventChannel:  envutil.String("REDIS_EVENT_CHANNEL", "progression"),
		PassLockTTL:   envutil.Seconds("PASS_LOCK_TTL_SECONDS", 15*time.Minute),

		RunWorker: envutil.Bool("RUN_WORKER", true),
		Worker: worker.Config{
			Concurrency:  envutil.Int("WORKER_CONCURRENCY", 2),
			PollInterval: envutil.Seconds("WORKER_POLL_SECONDS", time.Second),
			MaxAttempts:  envutil.Int("WORKER_MAX_ATTEMPTS", 5),
			RetryDelay:   envutil.Seconds("WORKER_RETRY_DELAY_SECONDS", 30*time.Second),
			StaleRunning: envutil.Seconds("WORKER_STALE_RUNNING_SECONDS", 30*time.Minute),
		},

		ReconcileInterval:     envutil.Seconds("RECONCILE_INTERVAL_SECONDS", 0),
		WeeklyContentInterval: envutil.Seconds("WEEKLY_CONTENT_INTERVAL_SECONDS", 0),
		DailyContentInterval:  envutil.Seconds("DAILY_CONTENT_INTERVAL_SECONDS", 0),
		DailyAdvanceInterval:  envutil.Seconds("DAILY_ADVANCE_INTERVAL_SECONDS", 0),

		Temporal: temporalx.LoadConfig(),

		MetricsAddr: envutil.String("METRICS_ADDR", ":9090"),
	}
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; every authenticated route will reject requests")
	}
	return cfg
}
