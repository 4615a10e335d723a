package plan

import "time"

// RunIDLayout is the canonical run id timestamp layout (yyyyMMdd-HHmmss).
const RunIDLayout = "20060102-150405"

// NewRunID formats a run id for the given creation time.
func NewRunID(t time.Time) string {
	return t.UTC().Format(RunIDLayout)
}
