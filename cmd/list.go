package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"tablekeeper/core/config"
	"tablekeeper/core/logger"
	"tablekeeper/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List remote tables against the schema document",
	Long: `Shows every table the cluster knows about, whether it is tracked by
the selected configuration, and which desired tables are missing. Nothing is
mutated.`,
	Run: func(cmd *cobra.Command, args []string) {
		runList(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(listCmd)
}

func runList(ctx context.Context) {
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

	descriptors, err := reconcile.NewEngine(client, nil).ListRemote(ctx)
	if err != nil {
		logg.Fatal("Failed to list remote tables", zap.Error(err))
	}

	desired := make(map[string]bool, len(resolved.Tables))
	for _, t := range resolved.Tables {
		desired[t.Name] = false
	}

	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })

	fmt.Printf("\n--- Tables (%s) ---\n", resolved.Name)
	for _, desc := range descriptors {
		families := make([]string, 0, len(desc.Families))
		for name := range desc.Families {
			families = append(families, name)
		}
		sort.Strings(families)

		tracked := "untracked"
		if _, ok := desired[desc.Name]; ok {
			desired[desc.Name] = true
			tracked = "tracked"
		}
		fmt.Printf("%-24s %-10s families: %v\n", desc.Name, tracked, families)
	}

	var missing []string
	for name, present := range desired {
		if !present {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		fmt.Printf("%-24s %smissing%s\n", name, "\033[33m", "\033[0m")
	}
	fmt.Println("-------------------")
}
