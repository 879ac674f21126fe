package scheduler

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	domainjobs "github.com/yungbote/contentflow-backend/internal/domain/jobs"
	"github.com/yungbote/contentflow-backend/internal/data/repos/testutil"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/services"
)

type stubJobs struct {
	services.JobService
	busy    map[string]bool
	created []string
}

func (s *stubJobs) EnqueueIfIdle(_ dbctx.Context, _ uuid.UUID, jobType string, payload map[string]any) (*types.JobRun, bool, error) {
	if s.busy[jobType] {
		return nil, false, nil
	}
	s.busy[jobType] = true
	s.created = append(s.created, jobType)
	return &types.JobRun{ID: uuid.New(), JobType: jobType}, true, nil
}

func TestTickSkipsWhileRunnable(t *testing.T) {
	jobs := &stubJobs{busy: map[string]bool{}}
	s := New(testutil.Logger(t), jobs, nil)

	if !s.Tick(context.Background(), domainjobs.TypeProgressionReconcile) {
		t.Fatalf("first tick should enqueue")
	}
	if s.Tick(context.Background(), domainjobs.TypeProgressionReconcile) {
		t.Fatalf("second tick should skip")
	}
	if !s.Tick(context.Background(), domainjobs.TypeDailyContentAdvance) {
		t.Fatalf("other types are independent")
	}
	if len(jobs.created) != 2 {
		t.Fatalf("created: want=2 got=%v", jobs.created)
	}
}
