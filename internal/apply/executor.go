package apply

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/rigup-dev/rigup/internal/driver"
	"github.com/rigup-dev/rigup/internal/errors"
	"github.com/rigup-dev/rigup/internal/log"
	"github.com/rigup-dev/rigup/internal/manifest"
	"github.com/rigup-dev/rigup/internal/plan"
)

// Options selects what to apply and how. Exactly one of ManifestPath and
// PlanPath must be set; enforcing that is the caller's job, but the
// executor rejects violations as usage errors before touching anything.
type Options struct {
	ManifestPath string
	PlanPath     string
	DryRun       bool

	// ContinueOnFailure keeps executing after a per-action failure.
	// This is the policy hook for a future fail-fast mode; best-effort
	// is the default.
	ContinueOnFailure bool

	// Platform overrides host detection. Zero means the current host.
	Platform driver.Platform

	// Now overrides the run timestamp. Zero means time.Now.
	Now time.Time
}

// DefaultOptions returns the best-effort apply policy.
func DefaultOptions() Options {
	return Options{ContinueOnFailure: true}
}

// Executor carries out a plan's actions against the registered backends.
type Executor struct {
	reg    *driver.Registry
	logger *log.Logger
}

// NewExecutor returns an executor bound to a registry.
func NewExecutor(reg *driver.Registry) *Executor {
	return &Executor{
		reg:    reg,
		logger: log.DefaultLogger().With("component", "apply"),
	}
}

// Apply resolves the input (fresh plan from a manifest, or a persisted
// plan document), executes its actions strictly in order, and assembles
// the Result. Per-action failures are recorded and counted, never thrown;
// only pre-flight problems (bad input, malformed plan, unavailable
// driver) return an error.
func (e *Executor) Apply(ctx context.Context, opts Options) (*Result, error) {
	if (opts.ManifestPath == "") == (opts.PlanPath == "") {
		return nil, fmt.Errorf("exactly one of a manifest path or a plan path is required")
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	p, originalRunID, err := e.resolvePlan(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:             plan.NewRunID(now),
		OriginalPlanRunID: originalRunID,
		PlanPath:          opts.PlanPath,
		DryRun:            opts.DryRun,
	}

	// Session id correlates the per-action log records of one run.
	logger := e.logger.With("session", uuid.NewString(), "runId", result.RunID, "dryRun", opts.DryRun)
	logger.Info("apply started", "actions", len(p.Actions))

	// Actions run one at a time in plan order. Later actions may depend
	// on earlier side effects, and backend tooling is not assumed safe
	// under concurrent invocation.
	for _, action := range p.Actions {
		if action.Status == plan.StatusSkip {
			result.Skipped++
			logger.Debug("action skipped", "id", action.ID, "reason", action.Reason)
			continue
		}

		if opts.DryRun {
			// A would-install. Same counts as a real run of the same
			// plan; only the DryRun flag distinguishes the Result.
			result.Success++
			logger.Info("would execute", "type", string(action.Type), "id", action.ID, "ref", action.Ref, "driver", action.Driver)
			continue
		}

		if err := e.execute(ctx, action); err != nil {
			err = errors.Wrap(errors.CodeInstallFailed,
				fmt.Sprintf("%s action %s failed", action.Type, action.ID), err)
			result.Failed++
			result.Failures = append(result.Failures, Failure{ActionID: action.ID, Ref: action.Ref, Err: err})
			logger.Error("action failed", "type", string(action.Type), "id", action.ID, "ref", action.Ref, "error", err.Error())
			if !opts.ContinueOnFailure {
				break
			}
			continue
		}

		result.Success++
		logger.Info("action succeeded", "type", string(action.Type), "id", action.ID, "ref", action.Ref)
	}

	logger.Info("apply finished",
		"success", result.Success,
		"skipped", result.Skipped,
		"failed", result.Failed)

	return result, nil
}

// resolvePlan produces the plan to execute and, when replaying a
// persisted plan, its original run id.
func (e *Executor) resolvePlan(ctx context.Context, opts Options) (*plan.Plan, string, error) {
	if opts.PlanPath != "" {
		p, err := plan.Load(opts.PlanPath)
		if err != nil {
			return nil, "", err
		}
		e.warnOnDrift(p)
		return p, p.RunID, nil
	}

	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return nil, "", err
	}
	p, err := plan.Build(ctx, m, e.reg, plan.BuildOptions{
		ManifestPath: opts.ManifestPath,
		Platform:     opts.Platform,
		Now:          opts.Now,
	})
	if err != nil {
		return nil, "", err
	}
	// Applying directly from a manifest: no persisted plan, so no
	// original run id.
	return p, "", nil
}

// warnOnDrift re-hashes the plan's source manifest when it is still on
// disk. A mismatch means the manifest changed after the plan was built;
// the plan stays authoritative, so this only warns.
func (e *Executor) warnOnDrift(p *plan.Plan) {
	if p.Manifest.Path == "" || p.Manifest.Hash == "" {
		return
	}
	if _, err := os.Stat(p.Manifest.Path); err != nil {
		return
	}
	m, err := manifest.Load(p.Manifest.Path)
	if err != nil {
		return
	}
	hash, err := manifest.Hash(m)
	if err != nil {
		return
	}
	if hash != p.Manifest.Hash {
		e.logger.Warn("manifest changed since plan was created",
			"manifest", p.Manifest.Path,
			"planHash", p.Manifest.Hash,
			"manifestHash", hash)
	}
}

// execute dispatches one action to the backend registered under the
// action's driver name.
func (e *Executor) execute(ctx context.Context, action plan.Action) error {
	switch action.Type {
	case plan.ActionApp:
		d, ok := e.reg.PackageDriver(action.Driver)
		if !ok {
			return fmt.Errorf("no package driver registered as %q", action.Driver)
		}
		return d.Install(ctx, action.Ref)

	case plan.ActionRestore:
		r, ok := e.reg.RestorerByName(action.Driver)
		if !ok {
			return fmt.Errorf("no restorer registered as %q", action.Driver)
		}
		return r.Restore(ctx, manifest.RestoreEntry{ID: action.ID, Path: action.Ref})

	case plan.ActionVerify:
		v, ok := e.reg.VerifierByName(action.Driver)
		if !ok {
			return fmt.Errorf("no verifier registered as %q", action.Driver)
		}
		return v.Verify(ctx, manifest.VerifyEntry{ID: action.ID, Path: action.Ref})

	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}
