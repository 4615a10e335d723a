package driver

import (
	"context"

	"github.com/rigup-dev/rigup/internal/manifest"
)

// Package is one installed piece of software as reported by a package
// driver.
type Package struct {
	ID      string `json:"id"`
	Ref     string `json:"ref"`
	Version string `json:"version,omitempty"`
}

// PackageDriver is the capability contract for a package-manager backend.
// Installed must be read-only: planning relies on it having no side
// effects on the machine.
type PackageDriver interface {
	// Name is the stable backend identifier recorded in actions.
	Name() string

	// Available reports whether the backend tooling exists on this machine.
	Available() bool

	// Installed reports whether the referenced package is present.
	Installed(ctx context.Context, ref string) (bool, error)

	// Install installs the referenced package.
	Install(ctx context.Context, ref string) error

	// InstalledPackages lists everything the backend reports as installed.
	InstalledPackages(ctx context.Context) ([]Package, error)
}

// Restorer is the capability contract for putting captured files back.
type Restorer interface {
	Name() string
	Restore(ctx context.Context, entry manifest.RestoreEntry) error
}

// Verifier is the capability contract for checking postconditions.
type Verifier interface {
	Name() string
	Verify(ctx context.Context, entry manifest.VerifyEntry) error
}
