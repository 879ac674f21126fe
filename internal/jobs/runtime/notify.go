package runtime

import (
	"context"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"github.com/yungbote/contentflow-backend/internal/realtime"
	"github.com/yungbote/contentflow-backend/internal/realtime/bus"
)

type Notifier interface {
	JobUpdated(ctx context.Context, job *types.JobRun)
}

type busNotifier struct {
	bus bus.Bus
	log *logger.Logger
}

// NewBusNotifier publishes job_updated events. A nil bus yields a no-op.
func NewBusNotifier(b bus.Bus, baseLog *logger.Logger) Notifier {
	return &busNotifier{bus: b, log: baseLog.With("component", "JobNotifier")}
}

func (n *busNotifier) JobUpdated(ctx context.Context, job *types.JobRun) {
	if n == nil || n.bus == nil || job == nil {
		return
	}
	ev := realtime.NewEvent(realtime.EventJobUpdated, job.OwnerUserID, map[string]any{
		"job_id":   job.ID.String(),
		"job_type": job.JobType,
		"status":   job.Status,
		"stage":    job.Stage,
		"progress": job.Progress,
	})
	if err := n.bus.Publish(ctx, ev); err != nil {
		n.log.Warn("publish job event failed", "job_id", job.ID, "error", err)
	}
}
