package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rigup-dev/rigup/internal/history"
)

var reportLimit int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show recent apply runs",
	Long: `List recent apply runs from the local run history, newest first.

Each row shows the run id, whether it was a dry run or a plan replay, and
the succeeded/skipped/failed counts recorded at the time.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return finishErr("report", err)
	}
	defer store.Close()

	records, err := store.Recent(reportLimit)
	if err != nil {
		return finishErr("report", err)
	}

	return finish("report", "", records, func() {
		if len(records) == 0 {
			fmt.Println("No apply runs recorded yet")
			return
		}
		for _, r := range records {
			mode := ""
			if r.DryRun {
				mode = " (dry run)"
			}
			if r.OriginalPlanRunID != "" {
				mode += " replayed " + r.OriginalPlanRunID
			}
			fmt.Printf("%s  %s%s  %d succeeded, %d skipped, %d failed\n",
				r.RecordedAt.Format("2006-01-02 15:04:05"), r.RunID, mode, r.Success, r.Skipped, r.Failed)
		}
	})
}

func init() {
	reportCmd.Flags().IntVarP(&reportLimit, "limit", "n", 20, "maximum number of runs to show")
	rootCmd.AddCommand(reportCmd)
}
