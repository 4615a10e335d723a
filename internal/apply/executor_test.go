package apply

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigup-dev/rigup/internal/driver"
	"github.com/rigup-dev/rigup/internal/driver/drivertest"
	"github.com/rigup-dev/rigup/internal/errors"
	"github.com/rigup-dev/rigup/internal/manifest"
	"github.com/rigup-dev/rigup/internal/plan"
)

type fixture struct {
	driver   *drivertest.MemDriver
	restorer *drivertest.MemRestorer
	verifier *drivertest.MemVerifier
	executor *Executor
}

func newFixture(installed ...string) *fixture {
	d := drivertest.NewMemDriver(installed...)
	r := drivertest.NewMemRestorer()
	v := drivertest.NewMemVerifier()
	return &fixture{
		driver:   d,
		restorer: r,
		verifier: v,
		executor: NewExecutor(drivertest.NewRegistry(d, r, v)),
	}
}

func writePlan(t *testing.T, p *plan.Plan) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, plan.Save(p, path))
	return path
}

func writeManifest(t *testing.T, m *manifest.Manifest) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, manifest.Save(m, path))
	return path
}

func memPlan(actions ...plan.Action) *plan.Plan {
	return &plan.Plan{
		RunID:   "20251219-010000",
		Actions: actions,
		Summary: plan.Summarize(actions),
	}
}

func appAction(id, ref string, status plan.Status) plan.Action {
	a := plan.Action{Type: plan.ActionApp, Status: status, Driver: "mem", ID: id, Ref: ref}
	if status == plan.StatusSkip {
		a.Reason = "already installed"
	}
	return a
}

func TestApplyRequiresExactlyOneInput(t *testing.T) {
	f := newFixture()

	_, err := f.executor.Apply(context.Background(), Options{ContinueOnFailure: true})
	assert.Error(t, err)

	_, err = f.executor.Apply(context.Background(), Options{
		ManifestPath: "a.yaml", PlanPath: "b.json", ContinueOnFailure: true,
	})
	assert.Error(t, err)
}

func TestApplyCountsScenario(t *testing.T) {
	// install A, skip B, install C against an always-succeeding driver.
	p := memPlan(
		appAction("a", "pkg-a", plan.StatusInstall),
		appAction("b", "pkg-b", plan.StatusSkip),
		appAction("c", "pkg-c", plan.StatusInstall),
	)
	f := newFixture()
	opts := DefaultOptions()
	opts.PlanPath = writePlan(t, p)

	result, err := f.executor.Apply(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, len(p.Actions), result.Total())
	assert.Equal(t, "20251219-010000", result.OriginalPlanRunID)
	assert.Equal(t, opts.PlanPath, result.PlanPath)
	assert.False(t, result.DryRun)
}

func TestApplyExecutesInPlanOrder(t *testing.T) {
	p := memPlan(
		appAction("zebra", "zebra", plan.StatusInstall),
		appAction("alpha", "alpha", plan.StatusInstall),
		appAction("beta", "beta", plan.StatusInstall),
	)
	f := newFixture()
	opts := DefaultOptions()
	opts.PlanPath = writePlan(t, p)

	_, err := f.executor.Apply(context.Background(), opts)
	require.NoError(t, err)

	// Sequence equality, not set equality.
	assert.Equal(t, []string{"zebra", "alpha", "beta"}, f.driver.InstallCalls)
}

func TestApplyDryRunMakesNoBackendCalls(t *testing.T) {
	p := memPlan(
		appAction("a", "pkg-a", plan.StatusInstall),
		appAction("b", "pkg-b", plan.StatusSkip),
		appAction("c", "pkg-c", plan.StatusInstall),
		plan.Action{Type: plan.ActionRestore, Status: plan.StatusInstall, Driver: "mem-restore", ID: "rc", Ref: "~/.bashrc"},
	)
	f := newFixture()
	opts := DefaultOptions()
	opts.PlanPath = writePlan(t, p)
	opts.DryRun = true

	result, err := f.executor.Apply(context.Background(), opts)
	require.NoError(t, err)

	// k install actions -> Success == k, and the counts match a real run
	// of the same plan; only the flag differs.
	assert.Equal(t, 3, result.Success)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	assert.True(t, result.DryRun)

	assert.Empty(t, f.driver.InstallCalls)
	assert.Empty(t, f.restorer.Calls)
	assert.Empty(t, f.verifier.Calls)
}

func TestApplyContinuesAfterFailure(t *testing.T) {
	p := memPlan(
		appAction("a", "pkg-a", plan.StatusInstall),
		appAction("b", "pkg-b", plan.StatusInstall),
		appAction("c", "pkg-c", plan.StatusInstall),
	)
	f := newFixture()
	f.driver.FailRefs["pkg-b"] = true
	opts := DefaultOptions()
	opts.PlanPath = writePlan(t, p)

	result, err := f.executor.Apply(context.Background(), opts)
	require.NoError(t, err)

	// One failing install must not prevent the others.
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"pkg-a", "pkg-b", "pkg-c"}, f.driver.InstallCalls)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "b", result.Failures[0].ActionID)
	// Recorded failures carry their taxonomy code.
	assert.Equal(t, errors.CodeInstallFailed, errors.CodeOf(result.Failures[0].Err))
}

func TestApplyFailFastPolicy(t *testing.T) {
	p := memPlan(
		appAction("a", "pkg-a", plan.StatusInstall),
		appAction("b", "pkg-b", plan.StatusInstall),
		appAction("c", "pkg-c", plan.StatusInstall),
	)
	f := newFixture()
	f.driver.FailRefs["pkg-b"] = true
	opts := Options{PlanPath: writePlan(t, p), ContinueOnFailure: false}

	result, err := f.executor.Apply(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"pkg-a", "pkg-b"}, f.driver.InstallCalls)
}

func TestApplyDispatchesRestoreAndVerify(t *testing.T) {
	p := memPlan(
		plan.Action{Type: plan.ActionRestore, Status: plan.StatusInstall, Driver: "mem-restore", ID: "gitconfig", Ref: "~/.gitconfig"},
		plan.Action{Type: plan.ActionVerify, Status: plan.StatusInstall, Driver: "mem-verify", ID: "gitconfig-exists", Ref: "~/.gitconfig"},
	)
	f := newFixture()
	opts := DefaultOptions()
	opts.PlanPath = writePlan(t, p)

	result, err := f.executor.Apply(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Success)
	assert.Equal(t, []string{"gitconfig"}, f.restorer.Calls)
	assert.Equal(t, []string{"gitconfig-exists"}, f.verifier.Calls)
}

func TestApplyUnknownBackendIsRecordedFailure(t *testing.T) {
	p := memPlan(
		plan.Action{Type: plan.ActionApp, Status: plan.StatusInstall, Driver: "ghost", ID: "a", Ref: "pkg-a"},
		appAction("b", "pkg-b", plan.StatusInstall),
	)
	f := newFixture()
	opts := DefaultOptions()
	opts.PlanPath = writePlan(t, p)

	result, err := f.executor.Apply(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Success)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, errors.CodeInstallFailed, errors.CodeOf(result.Failures[0].Err))
}

func TestApplyMalformedPlanFailsBeforeAnyBackendCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"runId": "20251219-010000"}`), 0600))

	f := newFixture()
	opts := DefaultOptions()
	opts.PlanPath = path

	result, err := f.executor.Apply(context.Background(), opts)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseError, errors.CodeOf(err))
	assert.Empty(t, f.driver.InstallCalls)
	assert.Empty(t, f.driver.InstalledCalls)
}

func TestApplyFromManifest(t *testing.T) {
	m := &manifest.Manifest{
		Version: 1,
		Name:    "dev-box",
		Apps: []manifest.App{
			{ID: "git", Refs: map[string]string{"linux": "git"}},
			{ID: "curl", Refs: map[string]string{"linux": "curl"}},
		},
		Restore: []manifest.RestoreEntry{},
		Verify:  []manifest.VerifyEntry{},
	}

	f := newFixture("git")
	opts := DefaultOptions()
	opts.ManifestPath = writeManifest(t, m)
	opts.Platform = driver.PlatformLinux

	result, err := f.executor.Apply(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, result.Skipped)
	// Direct manifest apply has no persisted plan to reference.
	assert.Empty(t, result.OriginalPlanRunID)
	assert.Empty(t, result.PlanPath)
	assert.Equal(t, []string{"curl"}, f.driver.InstallCalls)
}

func TestApplyIsIdempotent(t *testing.T) {
	m := &manifest.Manifest{
		Version: 1,
		Name:    "dev-box",
		Apps: []manifest.App{
			{ID: "git", Refs: map[string]string{"linux": "git"}},
			{ID: "curl", Refs: map[string]string{"linux": "curl"}},
			{ID: "jq", Refs: map[string]string{"linux": "jq"}},
		},
		Restore: []manifest.RestoreEntry{},
		Verify:  []manifest.VerifyEntry{},
	}

	f := newFixture()
	opts := DefaultOptions()
	opts.ManifestPath = writeManifest(t, m)
	opts.Platform = driver.PlatformLinux

	first, err := f.executor.Apply(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Success)

	// The driver's state now includes everything the first run installed.
	second, err := f.executor.Apply(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Success)
	assert.Equal(t, 3, second.Skipped)
	assert.Equal(t, 0, second.Failed)
}

func TestApplyManifestDriverUnavailable(t *testing.T) {
	m := &manifest.Manifest{
		Version: 1,
		Name:    "dev-box",
		Apps:    []manifest.App{{ID: "git", Refs: map[string]string{"linux": "git"}}},
		Restore: []manifest.RestoreEntry{},
		Verify:  []manifest.VerifyEntry{},
	}

	f := newFixture()
	f.driver.Unavailable = true
	opts := DefaultOptions()
	opts.ManifestPath = writeManifest(t, m)
	opts.Platform = driver.PlatformLinux

	result, err := f.executor.Apply(context.Background(), opts)
	assert.Nil(t, result)
	assert.Equal(t, errors.CodeDriverUnavailable, errors.CodeOf(err))
}
