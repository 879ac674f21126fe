package reconcile

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/contentflow-backend/internal/services"
)

// DefaultPasses extends the bundle tracks before reconciling so a week that
// just became assemblable can be reached in the same run.
var DefaultPasses = []string{
	services.PassWeeklyContent,
	services.PassDailyContent,
	services.PassReconcile,
}

// Workflow runs each pass as its own activity, in order. A pass that fails
// after retries stops the run; later passes wait for the next schedule.
func Workflow(ctx workflow.Context, in WorkflowInput) (WorkflowResult, error) {
	passes := in.Passes
	if len(passes) == 0 {
		passes = DefaultPasses
	}
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        5 * time.Second,
			BackoffCoefficient:     2,
			MaximumInterval:        2 * time.Minute,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{ErrTypeUnknownPass},
		},
	})

	log := workflow.GetLogger(ctx)
	var out WorkflowResult
	for _, p := range passes {
		var res PassResult
		if err := workflow.ExecuteActivity(ctx, ActivityRunPass, PassInput{Pass: p}).Get(ctx, &res); err != nil {
			return out, err
		}
		log.Info("progression pass finished", "pass", p, "busy", res.Busy, "updated", res.Summary.UpdatedCount)
		out.Results = append(out.Results, res)
	}
	return out, nil
}
