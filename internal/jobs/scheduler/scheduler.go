package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"github.com/yungbote/contentflow-backend/internal/services"
)

// Entry enqueues JobType every Interval. A non-positive Interval disables it.
type Entry struct {
	JobType  string
	Interval time.Duration
}

type Scheduler struct {
	log     *logger.Logger
	jobs    services.JobService
	entries []Entry
}

func New(baseLog *logger.Logger, jobs services.JobService, entries []Entry) *Scheduler {
	return &Scheduler{
		log:     baseLog.With("component", "JobScheduler"),
		jobs:    jobs,
		entries: entries,
	}
}

// Start runs one ticker per enabled entry until ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	for _, e := range s.entries {
		if e.Interval <= 0 {
			continue
		}
		s.log.Info("Scheduling job", "job_type", e.JobType, "interval", e.Interval.String())
		go s.loop(ctx, e)
	}
}

func (s *Scheduler) loop(ctx context.Context, e Entry) {
	t := time.NewTicker(e.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Tick(ctx, e.JobType)
		}
	}
}

// Tick enqueues jobType unless a run is already queued or running.
func (s *Scheduler) Tick(ctx context.Context, jobType string) bool {
	job, created, err := s.jobs.EnqueueIfIdle(dbctx.Context{Ctx: ctx}, uuid.Nil, jobType, map[string]any{"source": "scheduler"})
	if err != nil {
		s.log.Warn("scheduled enqueue failed", "job_type", jobType, "error", err)
		return false
	}
	if created {
		s.log.Debug("scheduled job enqueued", "job_type", jobType, "job_id", job.ID)
	}
	return created
}
