package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rigup-dev/rigup/internal/manifest"
	"github.com/rigup-dev/rigup/internal/plan"
)

var (
	planManifestPath string
	planOutPath      string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build an ordered plan from a manifest",
	Long: `Build an ordered plan by diffing a manifest against the machine's
installed packages.

Planning is read-only: no packages are installed. Apps already present are
recorded as skips, missing apps as installs, and restore/verify entries are
appended after all app actions. The plan document is persisted so a later
'rigup apply --plan' can replay it unchanged.`,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	manifestPath := planManifestPath
	if manifestPath == "" {
		manifestPath = cfg.ManifestPath
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return finishErr("plan", err)
	}

	p, err := plan.Build(cmd.Context(), m, registry, plan.BuildOptions{
		ManifestPath: manifestPath,
	})
	if err != nil {
		return finishErr("plan", err)
	}

	outPath := planOutPath
	if outPath == "" {
		if err := os.MkdirAll(cfg.PlanDir, 0755); err != nil {
			return finishErr("plan", err)
		}
		outPath = filepath.Join(cfg.PlanDir, "plan-"+p.RunID+".json")
	}
	if err := plan.Save(p, outPath); err != nil {
		return finishErr("plan", err)
	}

	return finish("plan", p.RunID, p, func() {
		fmt.Printf("✓ Plan %s for manifest %q (%s)\n", p.RunID, p.Manifest.Name, p.Manifest.Path)
		for _, action := range p.Actions {
			marker := "+"
			if action.Status == plan.StatusSkip {
				marker = "="
			}
			fmt.Printf("  %s %-7s %-10s %s\n", marker, action.Type, action.ID, action.Ref)
		}
		fmt.Printf("\n%d to install, %d already in place\n", p.Summary.Install, p.Summary.Skip)
		fmt.Printf("Plan written to %s\n", outPath)
		fmt.Printf("\nNext: rigup apply --plan %s\n", outPath)
	})
}

func init() {
	planCmd.Flags().StringVarP(&planManifestPath, "manifest", "m", "", "manifest file (default from config)")
	planCmd.Flags().StringVarP(&planOutPath, "out", "o", "", "plan output path (default under the configured plan dir)")
	rootCmd.AddCommand(planCmd)
}
