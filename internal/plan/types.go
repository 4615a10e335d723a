package plan

// ActionType classifies what kind of work an action is.
type ActionType string

const (
	ActionApp     ActionType = "app"
	ActionRestore ActionType = "restore"
	ActionVerify  ActionType = "verify"
)

// Status is an action's decided state. Plans carry install or skip;
// fail only appears on actions echoed back after an apply.
type Status string

const (
	StatusInstall Status = "install"
	StatusSkip    Status = "skip"
	StatusFail    Status = "fail"
)

// Action is one unit of planned work. Order is significant: actions are
// stored and executed in manifest order, never resorted.
type Action struct {
	Type   ActionType `json:"type"`
	Status Status     `json:"status"`
	Driver string     `json:"driver"`
	ID     string     `json:"id"`
	Ref    string     `json:"ref"`
	Reason string     `json:"reason,omitempty"`
}

// ManifestRef snapshots the manifest a plan was built from. The hash lets
// a later apply detect drift between plan creation and execution.
type ManifestRef struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// Summary holds derived counts over the action list.
type Summary struct {
	Install int `json:"install"`
	Skip    int `json:"skip"`
}

// Plan is the computed reconciliation for one manifest. It is a value
// object: immutable once built.
type Plan struct {
	RunID    string      `json:"runId"`
	Manifest ManifestRef `json:"manifest"`
	Actions  []Action    `json:"actions"`
	Summary  Summary     `json:"summary"`
}

// Summarize counts actions by status. Plan summaries are always derived
// this way, never authored independently.
func Summarize(actions []Action) Summary {
	var s Summary
	for _, a := range actions {
		switch a.Status {
		case StatusInstall:
			s.Install++
		case StatusSkip:
			s.Skip++
		}
	}
	return s
}
