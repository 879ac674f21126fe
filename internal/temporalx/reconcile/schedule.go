package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

// EnsureCron starts the cron-scheduled workflow unless it is already running.
func EnsureCron(ctx context.Context, log *logger.Logger, tc temporalsdkclient.Client, taskQueue, cron string) error {
	if tc == nil || cron == "" {
		return nil
	}
	_, err := tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:                                       CronWorkflowID,
		TaskQueue:                                taskQueue,
		CronSchedule:                             cron,
		WorkflowIDReusePolicy:                    enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, WorkflowName, WorkflowInput{})
	var started *serviceerror.WorkflowExecutionAlreadyStarted
	switch {
	case err == nil:
		log.Info("Scheduled progression workflow", "workflow_id", CronWorkflowID, "cron", cron)
		return nil
	case errors.As(err, &started):
		return nil
	default:
		return fmt.Errorf("start %s: %w", WorkflowName, err)
	}
}
