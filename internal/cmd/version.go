package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rigup-dev/rigup/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.GetInfo()
	return finish("version", "", info, func() {
		fmt.Println(info.String())
	})
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
