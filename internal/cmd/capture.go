package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rigup-dev/rigup/internal/capture"
	"github.com/rigup-dev/rigup/internal/manifest"
)

var (
	captureName    string
	captureOutPath string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture installed packages into a manifest",
	Long: `Write a manifest describing what the active package driver reports
as installed on this machine.

The captured manifest is a starting point: edit it down to the apps you
actually want managed, then use 'rigup plan' and 'rigup apply' to converge
other machines onto it.`,
	RunE: runCapture,
}

func runCapture(cmd *cobra.Command, args []string) error {
	m, err := capture.Run(cmd.Context(), registry, capture.Options{Name: captureName})
	if err != nil {
		return finishErr("capture", err)
	}

	outPath := captureOutPath
	if outPath == "" {
		outPath = cfg.ManifestPath
	}
	if err := manifest.Save(m, outPath); err != nil {
		return finishErr("capture", err)
	}

	return finish("capture", "", m, func() {
		fmt.Printf("✓ Captured %d apps into %s\n", len(m.Apps), outPath)
	})
}

func init() {
	captureCmd.Flags().StringVar(&captureName, "name", "", "manifest profile name")
	captureCmd.Flags().StringVarP(&captureOutPath, "out", "o", "", "manifest output path (default from config)")
	rootCmd.AddCommand(captureCmd)
}
