package handlers

import (
	"errors"
	"fmt"

	domainjobs "github.com/yungbote/contentflow-backend/internal/domain/jobs"
	"github.com/yungbote/contentflow-backend/internal/jobs/runtime"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/progression"
	"github.com/yungbote/contentflow-backend/internal/services"
)

type passFunc func(dbc dbctx.Context) (progression.Summary, error)

// passHandler runs one progression pass as a job. A pass already held by
// another process counts as success with busy=true in the result.
type passHandler struct {
	jobType string
	stage   string
	run     passFunc
}

func (h *passHandler) Type() string { return h.jobType }

func (h *passHandler) Run(jc *runtime.Context) error {
	jc.Progress(h.stage, 10, "")
	sum, err := h.run(jc.DBC())
	if errors.Is(err, services.ErrPassBusy) {
		jc.Succeed("busy", map[string]any{"busy": true})
		return nil
	}
	if err != nil {
		jc.Fail(h.stage, err)
		return nil
	}
	jc.Succeed("done", sum)
	return nil
}

// grantHandler fans out to a single user or series when the payload names
// one, and runs the bulk pass otherwise.
type grantHandler struct {
	svc services.ProgressionService
}

func (h *grantHandler) Type() string { return domainjobs.TypeAccessBulkGrant }

func (h *grantHandler) Run(jc *runtime.Context) error {
	var (
		sum progression.Summary
		err error
	)
	switch {
	case hasKey(jc, "user_id"):
		id, ok := jc.PayloadUUID("user_id")
		if !ok {
			jc.Fail("validate", fmt.Errorf("payload user_id is not a uuid"))
			return nil
		}
		jc.Progress("grant_user", 10, "")
		sum, err = h.svc.GrantAccessForUser(jc.DBC(), id)
	case hasKey(jc, "series_id"):
		id, ok := jc.PayloadUUID("series_id")
		if !ok {
			jc.Fail("validate", fmt.Errorf("payload series_id is not a uuid"))
			return nil
		}
		jc.Progress("grant_series", 10, "")
		sum, err = h.svc.GrantAccessForSeries(jc.DBC(), id)
	default:
		return (&passHandler{stage: "grant_all", run: h.svc.BulkGrantAccessToAllUsers}).Run(jc)
	}
	if err != nil {
		jc.Fail("grant", err)
		return nil
	}
	jc.Succeed("done", sum)
	return nil
}

func hasKey(jc *runtime.Context, key string) bool {
	_, ok := jc.Payload()[key]
	return ok
}

// Register binds every progression job type to svc.
func Register(reg *runtime.Registry, svc services.ProgressionService) error {
	hs := []runtime.Handler{
		&passHandler{jobType: domainjobs.TypeProgressionReconcile, stage: "reconcile", run: svc.RunReconciliation},
		&passHandler{jobType: domainjobs.TypeWeeklyContentGenerate, stage: "weekly_content", run: svc.GenerateWeeklyContent},
		&passHandler{jobType: domainjobs.TypeDailyContentGenerate, stage: "daily_content", run: svc.GenerateDailyContent},
		&passHandler{jobType: domainjobs.TypeDailyContentAdvance, stage: "daily_advance", run: svc.IncrementDailyContentForAllUsers},
		&grantHandler{svc: svc},
	}
	for _, h := range hs {
		if err := reg.Register(h); err != nil {
			return err
		}
	}
	return nil
}
