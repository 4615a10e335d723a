package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rigup-dev/rigup/internal/envelope"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Describe what this build can do",
	Long: `Report the supported envelope schema range, the available commands
and their flags, platform details, and the package drivers registered for
this host.

Consumers should call this once before driving rigup programmatically and
adapt to what it reports rather than hard-coding assumptions.`,
	RunE: runCapabilities,
}

func runCapabilities(cmd *cobra.Command, args []string) error {
	caps := envelope.GetCapabilities(registry)

	return finish("capabilities", "", caps, func() {
		fmt.Printf("Schema versions: %s to %s\n", caps.SchemaVersions.Min, caps.SchemaVersions.Max)
		fmt.Printf("Platform: %s (%s)\n", caps.Platform.PlatformName, caps.Platform.OS)
		fmt.Printf("Drivers: %s\n", strings.Join(caps.Platform.Drivers, ", "))
		fmt.Println("Commands:")
		for _, c := range caps.Commands {
			fmt.Printf("  %-13s %s\n", c.Name, strings.Join(c.Flags, " "))
		}
	})
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
}
