package envelope

import (
	"github.com/shirou/gopsutil/v3/host"

	"github.com/rigup-dev/rigup/internal/driver"
	"github.com/rigup-dev/rigup/internal/version"
)

// SchemaRange is the inclusive schema version span a build supports.
type SchemaRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// CommandInfo describes one supported command and its flags.
type CommandInfo struct {
	Name  string   `json:"name"`
	Flags []string `json:"flags"`
}

// PlatformInfo describes the host this build is running on.
type PlatformInfo struct {
	OS              string   `json:"os"`
	PlatformName    string   `json:"platformName,omitempty"`
	PlatformVersion string   `json:"platformVersion,omitempty"`
	KernelVersion   string   `json:"kernelVersion,omitempty"`
	Drivers         []string `json:"drivers"`
}

// Capabilities is the negotiation document a consumer reads before
// parsing command output.
type Capabilities struct {
	CLIVersion     string          `json:"cliVersion"`
	SchemaVersions SchemaRange     `json:"schemaVersions"`
	Commands       []CommandInfo   `json:"commands"`
	Features       map[string]bool `json:"features"`
	Platform       PlatformInfo    `json:"platform"`
}

// GetCapabilities reports what this build supports: schema range,
// commands with flags, feature flags, and host platform details.
func GetCapabilities(reg *driver.Registry) Capabilities {
	platform := PlatformInfo{
		OS:      driver.CurrentPlatform().String(),
		Drivers: reg.DriverNames(),
	}
	// Host details are best-effort decoration; the document is still
	// valid without them.
	if info, err := host.Info(); err == nil {
		platform.PlatformName = info.Platform
		platform.PlatformVersion = info.PlatformVersion
		platform.KernelVersion = info.KernelVersion
	}

	return Capabilities{
		CLIVersion: version.Version,
		SchemaVersions: SchemaRange{
			Min: MinSchemaVersion,
			Max: MaxSchemaVersion,
		},
		Commands: []CommandInfo{
			{Name: "capture", Flags: []string{"--out", "--name", "--json"}},
			{Name: "plan", Flags: []string{"--manifest", "--out", "--json"}},
			{Name: "apply", Flags: []string{"--manifest", "--plan", "--dry-run", "--json"}},
			{Name: "verify", Flags: []string{"--manifest", "--json"}},
			{Name: "report", Flags: []string{"--limit", "--json"}},
			{Name: "capabilities", Flags: []string{"--json"}},
		},
		Features: map[string]bool{
			"jsonOutput": true,
			"dryRun":     true,
			"planReplay": true,
			"runHistory": true,
			"driftWarn":  true,
			"failFast":   false,
		},
		Platform: platform,
	}
}
