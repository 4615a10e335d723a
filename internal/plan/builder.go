package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/rigup-dev/rigup/internal/driver"
	"github.com/rigup-dev/rigup/internal/errors"
	"github.com/rigup-dev/rigup/internal/log"
	"github.com/rigup-dev/rigup/internal/manifest"
)

// BuildOptions carries the non-manifest inputs to plan building.
type BuildOptions struct {
	// ManifestPath is recorded in the plan's manifest snapshot.
	ManifestPath string

	// Platform overrides host detection. Zero means the current host.
	Platform driver.Platform

	// Now overrides the plan creation time. Zero means time.Now.
	Now time.Time
}

// Build diffs a normalized manifest against live machine state and
// produces a Plan. Planning is read-only: the only driver call is the
// installed check. A failure never produces a partial plan.
func Build(ctx context.Context, m *manifest.Manifest, reg *driver.Registry, opts BuildOptions) (*Plan, error) {
	platform := opts.Platform
	if platform == "" {
		platform = driver.CurrentPlatform()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	active, err := reg.ActiveDriver(platform)
	if err != nil {
		return nil, err
	}

	hash, err := manifest.Hash(m)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, "failed to hash manifest", err)
	}

	logger := log.DefaultLogger().With("component", "plan", "platform", platform.String(), "driver", active.Name())

	var actions []Action
	for _, app := range m.Apps {
		ref, ok := app.RefFor(platform.String())
		if !ok {
			// Not an error: the app simply does not apply to this
			// platform's run.
			logger.Debug("app has no ref for platform, excluded", "app", app.ID)
			continue
		}

		installed, err := active.Installed(ctx, ref)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInternalError,
				fmt.Sprintf("installed check failed for %s", app.ID), err)
		}

		action := Action{
			Type:   ActionApp,
			Driver: active.Name(),
			ID:     app.ID,
			Ref:    ref,
		}
		if installed {
			action.Status = StatusSkip
			action.Reason = "already installed"
		} else {
			action.Status = StatusInstall
		}
		actions = append(actions, action)
	}

	if len(m.Restore) > 0 {
		restorer, err := reg.ActiveRestorer()
		if err != nil {
			return nil, err
		}
		for _, entry := range m.Restore {
			actions = append(actions, Action{
				Type:   ActionRestore,
				Status: StatusInstall,
				Driver: restorer.Name(),
				ID:     entry.ID,
				Ref:    entry.Path,
			})
		}
	}

	if len(m.Verify) > 0 {
		verifier, err := reg.ActiveVerifier()
		if err != nil {
			return nil, err
		}
		for _, entry := range m.Verify {
			actions = append(actions, Action{
				Type:   ActionVerify,
				Status: StatusInstall,
				Driver: verifier.Name(),
				ID:     entry.ID,
				Ref:    entry.Path,
			})
		}
	}

	p := &Plan{
		RunID: NewRunID(now),
		Manifest: ManifestRef{
			Name: m.Name,
			Path: opts.ManifestPath,
			Hash: hash,
		},
		Actions: actions,
		Summary: Summarize(actions),
	}

	logger.Info("plan built",
		"runId", p.RunID,
		"actions", len(p.Actions),
		"install", p.Summary.Install,
		"skip", p.Summary.Skip)

	return p, nil
}
