package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"github.com/yungbote/contentflow-backend/internal/progression"
	"github.com/yungbote/contentflow-backend/internal/services"
)

const ErrTypeUnknownPass = "UnknownPass"

type Activities struct {
	Log         *logger.Logger
	Progression services.ProgressionService
}

func (a *Activities) passFunc(name string) (func(dbctx.Context) (progression.Summary, error), bool) {
	switch name {
	case services.PassReconcile:
		return a.Progression.RunReconciliation, true
	case services.PassGrantAccess:
		return a.Progression.BulkGrantAccessToAllUsers, true
	case services.PassWeeklyContent:
		return a.Progression.GenerateWeeklyContent, true
	case services.PassDailyContent:
		return a.Progression.GenerateDailyContent, true
	case services.PassDailyAdvance:
		return a.Progression.IncrementDailyContentForAllUsers, true
	}
	return nil, false
}

// RunPass runs one named pass. A pass held elsewhere reports Busy instead of
// failing, so the schedule does not pile up retries behind a long pass.
func (a *Activities) RunPass(ctx context.Context, in PassInput) (PassResult, error) {
	fn, ok := a.passFunc(in.Pass)
	if !ok {
		return PassResult{}, temporal.NewNonRetryableApplicationError(fmt.Sprintf("unknown pass %q", in.Pass), ErrTypeUnknownPass, nil)
	}
	activity.RecordHeartbeat(ctx, in.Pass)

	sum, err := fn(dbctx.Context{Ctx: ctx})
	if errors.Is(err, services.ErrPassBusy) {
		a.Log.Info("progression pass busy", "pass", in.Pass)
		return PassResult{Pass: in.Pass, Busy: true}, nil
	}
	if err != nil {
		return PassResult{}, err
	}
	return PassResult{Pass: in.Pass, Summary: sum}, nil
}
