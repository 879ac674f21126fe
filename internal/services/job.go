package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/contentflow-backend/internal/data/repos"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	domainjobs "github.com/yungbote/contentflow-backend/internal/domain/jobs"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
	"github.com/yungbote/contentflow-backend/internal/platform/ctxutil"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type JobService interface {
	Enqueue(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string, payload map[string]any) (*types.JobRun, error)
	// EnqueueIfIdle enqueues unless a run of jobType is already queued or
	// running; the bool reports whether a row was created.
	EnqueueIfIdle(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string, payload map[string]any) (*types.JobRun, bool, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.JobRun, error)
	ListRecent(dbc dbctx.Context, jobType string, limit int) ([]*types.JobRun, error)
	Cancel(dbc dbctx.Context, id uuid.UUID) (*types.JobRun, error)
}

type jobService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.JobRunRepo
}

func NewJobService(db *gorm.DB, baseLog *logger.Logger, repo repos.JobRunRepo) JobService {
	return &jobService{
		db:   db,
		log:  baseLog.With("service", "JobService"),
		repo: repo,
	}
}

func (s *jobService) Enqueue(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string, payload map[string]any) (*types.JobRun, error) {
	jobType = strings.TrimSpace(jobType)
	if !domainjobs.IsKnownType(jobType) {
		return nil, fmt.Errorf("unknown job_type %q: %w", jobType, pkgerrors.ErrInvalidArgument)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if td := ctxutil.GetTraceData(dbc.Context()); td != nil {
		if td.TraceID != "" {
			if _, ok := payload["trace_id"]; !ok {
				payload["trace_id"] = td.TraceID
			}
		}
		if td.RequestID != "" {
			if _, ok := payload["request_id"]; !ok {
				payload["request_id"] = td.RequestID
			}
		}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	job := &types.JobRun{
		OwnerUserID: ownerUserID,
		JobType:     jobType,
		Status:      domainjobs.StatusQueued,
		Stage:       "queued",
		Payload:     datatypes.JSON(raw),
	}
	if _, err := s.repo.Create(dbc, []*types.JobRun{job}); err != nil {
		return nil, fmt.Errorf("create job_run: %w", err)
	}
	s.log.Info("job enqueued", "job_id", job.ID, "job_type", jobType, "owner_user_id", ownerUserID)
	return job, nil
}

func (s *jobService) EnqueueIfIdle(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string, payload map[string]any) (*types.JobRun, bool, error) {
	var (
		job     *types.JobRun
		created bool
	)
	err := withTx(dbc, s.db, func(inner dbctx.Context) error {
		busy, err := s.repo.ExistsRunnable(inner, jobType)
		if err != nil {
			return err
		}
		if busy {
			return nil
		}
		job, err = s.Enqueue(inner, ownerUserID, jobType, payload)
		created = err == nil
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return job, created, nil
}

func (s *jobService) Get(dbc dbctx.Context, id uuid.UUID) (*types.JobRun, error) {
	found, err := s.repo.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("job %s: %w", id, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}

func (s *jobService) ListRecent(dbc dbctx.Context, jobType string, limit int) ([]*types.JobRun, error) {
	return s.repo.ListRecent(dbc, strings.TrimSpace(jobType), limit)
}

// Cancel stops a job that has not finished. A running handler is not
// interrupted; its final write is rejected because the row is canceled.
func (s *jobService) Cancel(dbc dbctx.Context, id uuid.UUID) (*types.JobRun, error) {
	if _, err := s.Get(dbc, id); err != nil {
		return nil, err
	}
	now := time.Now()
	ok, err := s.repo.UpdateFieldsUnlessStatus(dbc, id,
		[]string{domainjobs.StatusSucceeded, domainjobs.StatusFailed, domainjobs.StatusCanceled},
		map[string]interface{}{
			"status":     domainjobs.StatusCanceled,
			"stage":      "canceled",
			"locked_at":  nil,
			"updated_at": now,
		})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("job %s already finished: %w", id, pkgerrors.ErrConflict)
	}
	return s.Get(dbc, id)
}
