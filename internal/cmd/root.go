package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rigup-dev/rigup/internal/config"
	"github.com/rigup-dev/rigup/internal/driver"
	"github.com/rigup-dev/rigup/internal/envelope"
	"github.com/rigup-dev/rigup/internal/log"
)

var (
	cfgPath       string
	jsonOutput    bool
	logLevel      string
	schemaVersion string

	cfg      config.Config
	registry *driver.Registry
)

var rootCmd = &cobra.Command{
	Use:   "rigup",
	Short: "Declarative workstation provisioning",
	Long: `rigup provisions a machine from a declarative manifest.

It captures installed packages into a manifest, builds an ordered plan
of the work needed to converge a machine onto that manifest, and applies
the plan through the platform's native package manager. Every command can
emit a versioned JSON envelope on stdout for consumption by other tools.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
}

func setupRun(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if !cmd.Flags().Changed("json") {
		jsonOutput = cfg.JSON
	}
	if !cmd.Flags().Changed("log-level") {
		logLevel = cfg.LogLevel
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(logLevel)
	log.SetDefaultLogger(log.New(logCfg))

	if err := envelope.CheckSchemaVersion(schemaVersion); err != nil {
		return finishErr(cmd.Name(), err)
	}

	registry = driver.NewRegistry()
	registry.Initialize(cfg.CaptureDir)
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", fmt.Sprintf("config file (default %s)", config.DefaultPath()))
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit a JSON envelope on stdout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&schemaVersion, "schema-version", envelope.SchemaVersion, "envelope schema version the caller understands")
}
