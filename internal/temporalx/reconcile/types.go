package reconcile

import "github.com/yungbote/contentflow-backend/internal/progression"

const (
	WorkflowName    = "progression_reconcile"
	ActivityRunPass = "progression_run_pass"
	CronWorkflowID  = "progression-reconcile-cron"
)

type WorkflowInput struct {
	// Passes run in order. Empty means DefaultPasses.
	Passes []string `json:"passes,omitempty"`
}

type PassInput struct {
	Pass string `json:"pass"`
}

type PassResult struct {
	Pass    string              `json:"pass"`
	Busy    bool                `json:"busy,omitempty"`
	Summary progression.Summary `json:"summary"`
}

type WorkflowResult struct {
	Results []PassResult `json:"results"`
}
