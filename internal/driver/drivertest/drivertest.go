// Package drivertest provides in-memory backends with call counting for
// engine tests.
package drivertest

import (
	"context"
	"fmt"
	"sort"

	"github.com/rigup-dev/rigup/internal/driver"
	"github.com/rigup-dev/rigup/internal/manifest"
)

// MemDriver is an in-memory package driver. InstalledRefs is the set of
// refs the driver reports as installed; Install adds to it unless FailRefs
// marks the ref as failing.
type MemDriver struct {
	DriverName    string
	Unavailable   bool
	InstalledRefs map[string]bool
	FailRefs      map[string]bool

	InstalledCalls []string
	InstallCalls   []string
}

// NewMemDriver returns a driver named "mem" with the given refs installed.
func NewMemDriver(installed ...string) *MemDriver {
	refs := make(map[string]bool, len(installed))
	for _, ref := range installed {
		refs[ref] = true
	}
	return &MemDriver{DriverName: "mem", InstalledRefs: refs, FailRefs: map[string]bool{}}
}

func (d *MemDriver) Name() string {
	return d.DriverName
}

func (d *MemDriver) Available() bool {
	return !d.Unavailable
}

func (d *MemDriver) Installed(_ context.Context, ref string) (bool, error) {
	d.InstalledCalls = append(d.InstalledCalls, ref)
	return d.InstalledRefs[ref], nil
}

func (d *MemDriver) Install(_ context.Context, ref string) error {
	d.InstallCalls = append(d.InstallCalls, ref)
	if d.FailRefs[ref] {
		return fmt.Errorf("install %s: simulated failure", ref)
	}
	d.InstalledRefs[ref] = true
	return nil
}

func (d *MemDriver) InstalledPackages(_ context.Context) ([]driver.Package, error) {
	refs := make([]string, 0, len(d.InstalledRefs))
	for ref, ok := range d.InstalledRefs {
		if ok {
			refs = append(refs, ref)
		}
	}
	sort.Strings(refs)
	pkgs := make([]driver.Package, 0, len(refs))
	for _, ref := range refs {
		pkgs = append(pkgs, driver.Package{ID: ref, Ref: ref, Version: "1.0.0"})
	}
	return pkgs, nil
}

// MemRestorer records restore calls and fails for ids in FailIDs.
type MemRestorer struct {
	RestorerName string
	FailIDs      map[string]bool
	Calls        []string
}

func NewMemRestorer() *MemRestorer {
	return &MemRestorer{RestorerName: "mem-restore", FailIDs: map[string]bool{}}
}

func (r *MemRestorer) Name() string {
	return r.RestorerName
}

func (r *MemRestorer) Restore(_ context.Context, entry manifest.RestoreEntry) error {
	r.Calls = append(r.Calls, entry.ID)
	if r.FailIDs[entry.ID] {
		return fmt.Errorf("restore %s: simulated failure", entry.ID)
	}
	return nil
}

// MemVerifier records verify calls and fails for ids in FailIDs.
type MemVerifier struct {
	VerifierName string
	FailIDs      map[string]bool
	Calls        []string
}

func NewMemVerifier() *MemVerifier {
	return &MemVerifier{VerifierName: "mem-verify", FailIDs: map[string]bool{}}
}

func (v *MemVerifier) Verify(_ context.Context, entry manifest.VerifyEntry) error {
	v.Calls = append(v.Calls, entry.ID)
	if v.FailIDs[entry.ID] {
		return fmt.Errorf("verify %s: simulated failure", entry.ID)
	}
	return nil
}

func (v *MemVerifier) Name() string {
	return v.VerifierName
}

// NewRegistry builds an initialized registry around the given backends,
// binding the package driver to every platform so tests are host-agnostic.
func NewRegistry(d *MemDriver, r *MemRestorer, v *MemVerifier) *driver.Registry {
	reg := driver.NewRegistry()
	for _, platform := range []driver.Platform{driver.PlatformWindows, driver.PlatformMacOS, driver.PlatformLinux} {
		reg.RegisterPackageDriver(platform, d)
	}
	reg.RegisterRestorer(r)
	reg.RegisterVerifier(v)
	return reg
}
