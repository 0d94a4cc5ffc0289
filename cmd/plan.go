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

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what apply would change, without touching the cluster",
	Run: func(cmd *cobra.Command, args []string) {
		runPlan(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(planCmd)
}

func runPlan(ctx context.Context) {
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

	diffs, err := reconcile.NewEngine(client, nil).Plan(ctx, resolved.Tables)
	if err != nil {
		logg.Fatal("Failed to compute plan", zap.Error(err))
	}

	fmt.Printf("\n--- Plan (%s) ---\n", resolved.Name)
	clean := true
	for _, diff := range diffs {
		if diff.Empty() {
			continue
		}
		clean = false
		if !diff.Exists {
			fmt.Printf("%-24s %screate%s\n", diff.Table, "\033[32m", "\033[0m")
			continue
		}
		fmt.Printf("%-24s update\n", diff.Table)
		for _, spec := range diff.Add {
			fmt.Printf("  + add family %s\n", spec.Name)
		}
		for _, change := range diff.Modify {
			fmt.Printf("  ~ modify family %s\n", change.New.Name)
		}
		for _, name := range diff.Delete {
			fmt.Printf("  - delete family %s\n", name)
		}
	}
	if clean {
		fmt.Println("all tables up to date")
	}
	fmt.Println("-----------------")
}
