package apply

// Result is the terminal outcome of one apply run. Field names follow the
// external JSON contract. The counters always satisfy
// Success + Skipped + Failed == number of attempted actions.
type Result struct {
	RunID             string `json:"RunId"`
	OriginalPlanRunID string `json:"OriginalPlanRunId,omitempty"`
	PlanPath          string `json:"PlanPath,omitempty"`
	DryRun            bool   `json:"DryRun"`
	Success           int    `json:"Success"`
	Skipped           int    `json:"Skipped"`
	Failed            int    `json:"Failed"`

	// Failures records per-action failure detail for logs and the run
	// history. It is not part of the external Result document.
	Failures []Failure `json:"-"`
}

// Failure is one recorded per-action failure.
type Failure struct {
	ActionID string
	Ref      string
	Err      error
}

// Total returns the number of accounted actions.
func (r *Result) Total() int {
	return r.Success + r.Skipped + r.Failed
}
