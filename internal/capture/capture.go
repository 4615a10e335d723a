// Package capture authors a manifest from what the active package driver
// reports as installed. Deeper discovery (PATH scanning, ownership
// matching) lives outside the engine; capture only serializes the
// driver's view.
package capture

import (
	"context"
	"time"

	"github.com/rigup-dev/rigup/internal/driver"
	"github.com/rigup-dev/rigup/internal/log"
	"github.com/rigup-dev/rigup/internal/manifest"
)

// Options carries the non-registry inputs to a capture.
type Options struct {
	// Name is the manifest profile name.
	Name string

	// Platform overrides host detection. Zero means the current host.
	Platform driver.Platform

	// Now overrides the capture timestamp. Zero means time.Now.
	Now time.Time
}

// Run produces a manifest describing the machine's installed software.
func Run(ctx context.Context, reg *driver.Registry, opts Options) (*manifest.Manifest, error) {
	platform := opts.Platform
	if platform == "" {
		platform = driver.CurrentPlatform()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	name := opts.Name
	if name == "" {
		name = "captured-workstation"
	}

	active, err := reg.ActiveDriver(platform)
	if err != nil {
		return nil, err
	}

	pkgs, err := active.InstalledPackages(ctx)
	if err != nil {
		return nil, err
	}

	apps := make([]manifest.App, 0, len(pkgs))
	for _, pkg := range pkgs {
		apps = append(apps, manifest.App{
			ID:   pkg.ID,
			Refs: map[string]string{platform.String(): pkg.Ref},
		})
	}

	log.DefaultLogger().Info("capture finished",
		"driver", active.Name(),
		"apps", len(apps))

	return &manifest.Manifest{
		Version:  manifest.SupportedVersion,
		Name:     name,
		Captured: now.UTC().Format(time.RFC3339),
		Apps:     apps,
		Restore:  []manifest.RestoreEntry{},
		Verify:   []manifest.VerifyEntry{},
	}, nil
}
