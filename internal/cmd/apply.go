package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rigup-dev/rigup/internal/apply"
	"github.com/rigup-dev/rigup/internal/history"
	"github.com/rigup-dev/rigup/internal/log"
)

var (
	applyManifestPath string
	applyPlanPath     string
	applyDryRun       bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a manifest or a persisted plan",
	Long: `Converge the machine onto a manifest.

With --manifest a fresh plan is built and executed in one step. With --plan
a previously persisted plan document is replayed exactly as written. The two
inputs are mutually exclusive.

Execution is best-effort: a failing install is recorded and counted, and the
run continues with the next action. --dry-run walks the plan and reports what
would happen without calling any package manager.`,
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	opts := apply.DefaultOptions()
	opts.ManifestPath = applyManifestPath
	opts.PlanPath = applyPlanPath
	opts.DryRun = applyDryRun

	executor := apply.NewExecutor(registry)
	result, err := executor.Apply(cmd.Context(), opts)
	if err != nil {
		return finishErr("apply", err)
	}

	recordRun(result)

	return finish("apply", result.RunID, result, func() {
		if result.DryRun {
			fmt.Printf("Dry run %s (no changes made)\n", result.RunID)
		} else {
			fmt.Printf("Apply %s complete\n", result.RunID)
		}
		if result.OriginalPlanRunID != "" {
			fmt.Printf("  replayed plan %s\n", result.OriginalPlanRunID)
		}
		fmt.Printf("  %d succeeded, %d skipped, %d failed\n", result.Success, result.Skipped, result.Failed)
		for _, f := range result.Failures {
			fmt.Printf("  ❌ %s (%s): %v\n", f.ActionID, f.Ref, f.Err)
		}
	})
}

// recordRun appends the result to the local run history. History is an
// audit convenience; a failure to record never fails the apply.
func recordRun(result *apply.Result) {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		log.DefaultLogger().WithError(err).Warn("run history unavailable, apply result not recorded")
		return
	}
	defer store.Close()
	if err := store.RecordApply(result, time.Now().UTC()); err != nil {
		log.DefaultLogger().WithError(err).Warn("failed to record apply result")
	}
}

func init() {
	applyCmd.Flags().StringVarP(&applyManifestPath, "manifest", "m", "", "manifest file to build and apply")
	applyCmd.Flags().StringVarP(&applyPlanPath, "plan", "p", "", "persisted plan document to replay")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "walk the plan without installing anything")
	applyCmd.MarkFlagsOneRequired("manifest", "plan")
	applyCmd.MarkFlagsMutuallyExclusive("manifest", "plan")
	rootCmd.AddCommand(applyCmd)
}
