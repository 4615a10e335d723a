package driver

import (
	"github.com/rigup-dev/rigup/internal/errors"
)

// Registry holds the registered backends behind their capability
// interfaces. It is constructed once per process, initialized, and
// treated as read-only afterwards; the engine receives it by injection
// rather than reaching for ambient state.
type Registry struct {
	packageDrivers map[Platform][]PackageDriver
	driversByName  map[string]PackageDriver
	restorers      []Restorer
	restorerByName map[string]Restorer
	verifiers      []Verifier
	verifierByName map[string]Verifier
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Initialize registers every backend this build ships. Backends that turn
// out to be unavailable on the current machine still register; selection
// happens in ActiveDriver, so Initialize never fails.
func (r *Registry) Initialize(restoreRoot string) {
	r.RegisterPackageDriver(PlatformWindows, NewWingetDriver())
	r.RegisterPackageDriver(PlatformMacOS, NewBrewDriver())
	r.RegisterPackageDriver(PlatformLinux, NewAptDriver())
	r.RegisterRestorer(NewCopyRestorer(restoreRoot))
	r.RegisterVerifier(NewFileVerifier())
}

// Reset clears all registrations. Tests use it between independent runs;
// production code never re-initializes mid-run.
func (r *Registry) Reset() {
	r.packageDrivers = make(map[Platform][]PackageDriver)
	r.driversByName = make(map[string]PackageDriver)
	r.restorers = nil
	r.restorerByName = make(map[string]Restorer)
	r.verifiers = nil
	r.verifierByName = make(map[string]Verifier)
}

// RegisterPackageDriver binds a package driver to the platform it serves.
func (r *Registry) RegisterPackageDriver(platform Platform, d PackageDriver) {
	r.packageDrivers[platform] = append(r.packageDrivers[platform], d)
	r.driversByName[d.Name()] = d
}

// RegisterRestorer adds a restorer backend. The first registered restorer
// is the active one.
func (r *Registry) RegisterRestorer(d Restorer) {
	r.restorers = append(r.restorers, d)
	r.restorerByName[d.Name()] = d
}

// RegisterVerifier adds a verifier backend. The first registered verifier
// is the active one.
func (r *Registry) RegisterVerifier(d Verifier) {
	r.verifiers = append(r.verifiers, d)
	r.verifierByName[d.Name()] = d
}

// ActiveDriver resolves the single package driver for the given platform.
// It fails when no driver is registered for the platform or the candidate
// reports itself unavailable.
func (r *Registry) ActiveDriver(platform Platform) (PackageDriver, error) {
	candidates := r.packageDrivers[platform]
	for _, d := range candidates {
		if d.Available() {
			return d, nil
		}
	}
	return nil, errors.NewDriverUnavailableError(platform.String())
}

// PackageDriver looks up a registered package driver by name.
func (r *Registry) PackageDriver(name string) (PackageDriver, bool) {
	d, ok := r.driversByName[name]
	return d, ok
}

// ActiveRestorer returns the restorer backend, failing when none is
// registered.
func (r *Registry) ActiveRestorer() (Restorer, error) {
	if len(r.restorers) == 0 {
		return nil, errors.New(errors.CodeDriverUnavailable, "no restorer backend registered")
	}
	return r.restorers[0], nil
}

// RestorerByName looks up a registered restorer by name.
func (r *Registry) RestorerByName(name string) (Restorer, bool) {
	d, ok := r.restorerByName[name]
	return d, ok
}

// ActiveVerifier returns the verifier backend, failing when none is
// registered.
func (r *Registry) ActiveVerifier() (Verifier, error) {
	if len(r.verifiers) == 0 {
		return nil, errors.New(errors.CodeDriverUnavailable, "no verifier backend registered")
	}
	return r.verifiers[0], nil
}

// VerifierByName looks up a registered verifier by name.
func (r *Registry) VerifierByName(name string) (Verifier, bool) {
	d, ok := r.verifierByName[name]
	return d, ok
}

// DriverNames lists every registered backend name, package drivers first,
// for the capabilities document.
func (r *Registry) DriverNames() []string {
	var names []string
	for _, platform := range []Platform{PlatformWindows, PlatformMacOS, PlatformLinux} {
		for _, d := range r.packageDrivers[platform] {
			names = append(names, d.Name())
		}
	}
	for _, d := range r.restorers {
		names = append(names, d.Name())
	}
	for _, d := range r.verifiers {
		names = append(names, d.Name())
	}
	return names
}
