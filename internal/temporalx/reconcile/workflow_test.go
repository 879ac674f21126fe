package reconcile

import (
	"testing"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"github.com/yungbote/contentflow-backend/internal/progression"
	"github.com/yungbote/contentflow-backend/internal/services"
)

type stubProgression struct {
	services.ProgressionService
	calls []string
	busy  bool
}

func (s *stubProgression) RunReconciliation(dbctx.Context) (progression.Summary, error) {
	s.calls = append(s.calls, services.PassReconcile)
	if s.busy {
		return progression.Summary{}, services.ErrPassBusy
	}
	return progression.Summary{UpdatedCount: 4}, nil
}

func (s *stubProgression) GenerateWeeklyContent(dbctx.Context) (progression.Summary, error) {
	s.calls = append(s.calls, services.PassWeeklyContent)
	return progression.Summary{UpdatedCount: 1}, nil
}

func (s *stubProgression) GenerateDailyContent(dbctx.Context) (progression.Summary, error) {
	s.calls = append(s.calls, services.PassDailyContent)
	return progression.Summary{}, nil
}

func newEnv(t *testing.T, svc services.ProgressionService) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowName})
	acts := &Activities{Log: logger.Nop(), Progression: svc}
	env.RegisterActivityWithOptions(acts.RunPass, activity.RegisterOptions{Name: ActivityRunPass})
	return env
}

func TestWorkflowRunsDefaultPassesInOrder(t *testing.T) {
	svc := &stubProgression{}
	env := newEnv(t, svc)
	env.ExecuteWorkflow(WorkflowName, WorkflowInput{})

	if !env.IsWorkflowCompleted() || env.GetWorkflowError() != nil {
		t.Fatalf("workflow: completed=%v err=%v", env.IsWorkflowCompleted(), env.GetWorkflowError())
	}
	var out WorkflowResult
	if err := env.GetWorkflowResult(&out); err != nil {
		t.Fatalf("GetWorkflowResult: %v", err)
	}
	if len(out.Results) != 3 || out.Results[2].Summary.UpdatedCount != 4 {
		t.Fatalf("results: got=%+v", out.Results)
	}
	want := []string{services.PassWeeklyContent, services.PassDailyContent, services.PassReconcile}
	for i, p := range want {
		if svc.calls[i] != p {
			t.Fatalf("call %d: want=%s got=%s", i, p, svc.calls[i])
		}
	}
}

func TestWorkflowReportsBusyPass(t *testing.T) {
	env := newEnv(t, &stubProgression{busy: true})
	env.ExecuteWorkflow(WorkflowName, WorkflowInput{Passes: []string{services.PassReconcile}})

	var out WorkflowResult
	if err := env.GetWorkflowResult(&out); err != nil {
		t.Fatalf("GetWorkflowResult: %v", err)
	}
	if len(out.Results) != 1 || !out.Results[0].Busy {
		t.Fatalf("busy pass: got=%+v", out.Results)
	}
}

func TestWorkflowFailsOnUnknownPass(t *testing.T) {
	svc := &stubProgression{}
	env := newEnv(t, svc)
	env.ExecuteWorkflow(WorkflowName, WorkflowInput{Passes: []string{"nope", services.PassReconcile}})

	if env.GetWorkflowError() == nil {
		t.Fatalf("want workflow error for unknown pass")
	}
	if len(svc.calls) != 0 {
		t.Fatalf("later passes should not run: got=%v", svc.calls)
	}
}
