package cmd

import (
	"context"
	"fmt"
	"os"

	"tablekeeper/core/config"
	"tablekeeper/core/logger"
	"tablekeeper/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	noCreateFlag bool
	verboseFlag  bool
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile the cluster with the schema document",
	Long: `Diffs every table in the selected configuration against the live
cluster and applies the missing changes: absent tables are created, drifted
tables are taken through a disable, mutate, enable cycle.`,
	Run: func(cmd *cobra.Command, args []string) {
		runApply(cmd.Context())
	},
}

func init() {
	applyCmd.Flags().BoolVarP(&noCreateFlag, "no-create", "n", false, "only inspect, never create or alter tables")
	applyCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "log every applied mutation")
	RootCmd.AddCommand(applyCmd)
}

func runApply(ctx context.Context) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	resolved, err := loadDocument(ctx, cfg)
	if err != nil {
		logg.Fatal("Failed to load schema document", zap.Error(err))
	}

	client, closer, err := newAdminClient(ctx, resolved.Cluster, logg)
	if err != nil {
		logg.Fatal("Failed to connect to cluster", zap.Error(err))
	}
	defer closer()

	engine := reconcile.NewEngine(client, reconcile.NewLogSink(logg))
	logg.Info("Reconciliation started",
		zap.String("run_id", engine.RunID()),
		zap.String("configuration", resolved.Name),
		zap.Int("tables", len(resolved.Tables)),
	)

	results := engine.Reconcile(ctx, resolved.Tables, reconcile.Options{
		AllowCreateOrModify: !noCreateFlag,
		Verbose:             verboseFlag,
	})

	printResults(results)
	if reconcile.Summarize(results).Failed > 0 {
		os.Exit(1)
	}
}

func printResults(results []reconcile.Result) {
	fmt.Println("\n--- Reconciliation Results ---")
	for _, r := range results {
		fmt.Printf("%-24s %s%s%s\n", r.Table, outcomeColor(r.Outcome), r.Outcome, "\033[0m")
		for _, mutation := range r.Applied {
			fmt.Printf("  applied: %s\n", mutation)
		}
		if r.Err != nil {
			fmt.Printf("  error: %v\n", r.Err)
		}
	}

	s := reconcile.Summarize(results)
	fmt.Println("------------------------------")
	fmt.Printf("created: %d  updated: %d  unchanged: %d  skipped: %d  failed: %d\n",
		s.Created, s.Updated, s.Unchanged, s.Skipped, s.Failed)
}

func outcomeColor(o reconcile.Outcome) string {
	switch o {
	case reconcile.OutcomeCreated, reconcile.OutcomeUpdated:
		return "\033[32m" // Green
	case reconcile.OutcomeSkippedNoCreate:
		return "\033[33m" // Yellow
	case reconcile.OutcomeFailed:
		return "\033[31m" // Red
	default:
		return ""
	}
}
