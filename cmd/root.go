package cmd

import (
	"fmt"
	"os"

	"tablekeeper/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// schemaFlag overrides the configured schema document path.
	schemaFlag string
	// configFlag selects a named configuration inside the document.
	configFlag string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "tablekeeper",
	Short: "Schema reconciliation for column family stores",
	Long: `Tablekeeper keeps the tables of a column family store in line with a
declarative schema document. It diffs the desired table definitions against
the live cluster and applies the missing changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			// Log the error with structured logger (Console encoding will make it pretty)
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&schemaFlag, "schema", "s", "", "schema document path or s3://bucket/key URL (overrides SCHEMA_PATH)")
	RootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "configuration name inside the schema document (overrides SCHEMA_CONFIG)")
}
