package app

import (
	"fmt"

	domainjobs "github.com/yungbote/contentflow-backend/internal/domain/jobs"
	jobhandlers "github.com/yungbote/contentflow-backend/internal/jobs/handlers"
	"github.com/yungbote/contentflow-backend/internal/jobs/runtime"
	"github.com/yungbote/contentflow-backend/internal/jobs/scheduler"
	"github.com/yungbote/contentflow-backend/internal/jobs/worker"
	"github.com/yungbote/contentflow-backend/internal/observability"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"github.com/yungbote/contentflow-backend/internal/temporalx/temporalworker"
)

type Workers struct {
	Registry  *runtime.Registry
	Jobs      *worker.Worker
	Scheduler *scheduler.Scheduler
	Temporal  *temporalworker.Runner
}

func wireWorkers(log *logger.Logger, cfg Config, r Repos, c Clients, s Services, metrics *observability.Metrics) (Workers, error) {
	log.Info("Wiring workers...")
	reg := runtime.NewRegistry()
	if err := jobhandlers.Register(reg, s.Progression); err != nil {
		return Workers{}, fmt.Errorf("register job handlers: %w", err)
	}
	out := Workers{Registry: reg}

	if cfg.RunWorker {
		out.Jobs = worker.NewWorker(log, r.JobRun, reg, runtime.NewBusNotifier(c.Bus, log), metrics, cfg.Worker)
	}

	out.Scheduler = scheduler.New(log, s.Jobs, []scheduler.Entry{
		{JobType: domainjobs.TypeProgressionReconcile, Interval: cfg.ReconcileInterval},
		{JobType: domainjobs.TypeWeeklyContentGenerate, Interval: cfg.WeeklyContentInterval},
		{JobType: domainjobs.TypeDailyContentGenerate, Interval: cfg.DailyContentInterval},
		{JobType: domainjobs.TypeDailyContentAdvance, Interval: cfg.DailyAdvanceInterval},
	})

	if c.Temporal != nil {
		runner, err := temporalworker.NewRunner(log, c.Temporal, cfg.Temporal, s.Progression, cfg.Worker.Concurrency)
		if err != nil {
			return Workers{}, fmt.Errorf("init temporal worker: %w", err)
		}
		out.Temporal = runner
	}
	return out, nil
}
