package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rigup-dev/rigup/internal/manifest"
)

var verifyManifestPath string

type verifyFailure struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

type verifyOutcome struct {
	Verified int             `json:"verified"`
	Failed   int             `json:"failed"`
	Failures []verifyFailure `json:"failures,omitempty"`
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the manifest's verify entries against this machine",
	Long: `Run every verify entry in the manifest through the registered
verifier and report which paths are missing.

Verification never changes the machine. Failures are counted, not fatal:
the command checks every entry before reporting.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	manifestPath := verifyManifestPath
	if manifestPath == "" {
		manifestPath = cfg.ManifestPath
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return finishErr("verify", err)
	}

	verifier, err := registry.ActiveVerifier()
	if err != nil {
		return finishErr("verify", err)
	}

	var outcome verifyOutcome
	for _, entry := range m.Verify {
		if err := verifier.Verify(cmd.Context(), entry); err != nil {
			outcome.Failed++
			outcome.Failures = append(outcome.Failures, verifyFailure{
				ID:    entry.ID,
				Path:  entry.Path,
				Error: err.Error(),
			})
			continue
		}
		outcome.Verified++
	}

	return finish("verify", "", outcome, func() {
		if outcome.Failed == 0 {
			fmt.Printf("✓ %d verify entries passed\n", outcome.Verified)
			return
		}
		fmt.Printf("%d passed, %d failed\n", outcome.Verified, outcome.Failed)
		for _, f := range outcome.Failures {
			fmt.Printf("  ❌ %s (%s): %s\n", f.ID, f.Path, f.Error)
		}
	})
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyManifestPath, "manifest", "m", "", "manifest file (default from config)")
	rootCmd.AddCommand(verifyCmd)
}
