package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigup-dev/rigup/internal/apply"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2025, 12, 19, 1, 0, 0, 0, time.UTC)
	results := []*apply.Result{
		{RunID: "20251219-010000", Success: 3, Skipped: 1},
		{RunID: "20251219-020000", OriginalPlanRunID: "20251219-010000", PlanPath: "/plans/p.json", Success: 0, Skipped: 4},
		{RunID: "20251219-030000", DryRun: true, Success: 2, Failed: 1},
	}
	for i, r := range results {
		require.NoError(t, store.RecordApply(r, base.Add(time.Duration(i)*time.Hour)))
	}

	records, err := store.Recent(0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.Equal(t, "20251219-030000", records[0].RunID)
	assert.True(t, records[0].DryRun)
	assert.Equal(t, 1, records[0].Failed)

	assert.Equal(t, "20251219-020000", records[1].RunID)
	assert.Equal(t, "20251219-010000", records[1].OriginalPlanRunID)
	assert.Equal(t, "/plans/p.json", records[1].PlanPath)

	assert.Equal(t, "20251219-010000", records[2].RunID)
	assert.Equal(t, base, records[2].RecordedAt)
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2025, 12, 19, 1, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordApply(&apply.Result{RunID: "run", Success: i}, base.Add(time.Duration(i)*time.Minute)))
	}

	records, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 4, records[0].Success)
	assert.Equal(t, 3, records[1].Success)
}

func TestRecentEmpty(t *testing.T) {
	store := openTestStore(t)

	records, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
