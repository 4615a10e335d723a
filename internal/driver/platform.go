package driver

import "runtime"

// Platform is the host platform name used in manifest refs and driver
// selection. It comes from the host environment, never from configuration.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
)

// CurrentPlatform maps the runtime OS onto the manifest platform names.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformMacOS
	default:
		return PlatformLinux
	}
}

func (p Platform) String() string {
	return string(p)
}
