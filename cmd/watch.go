package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"tablekeeper/core/config"
	"tablekeeper/core/logger"
	"tablekeeper/core/reconcile"
	"tablekeeper/core/schema"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// debounce window for editors that write in multiple bursts
const watchDebounce = 2 * time.Second

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the schema document and reconcile on change",
	Long: `Runs an initial reconciliation, then watches the local schema document
and re-reconciles whenever it changes. Only local documents can be watched.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWatch(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().BoolVarP(&noCreateFlag, "no-create", "n", false, "only inspect, never create or alter tables")
	watchCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "log every applied mutation")
	RootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context) {
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

	source := cfg.Schema.Path
	if schemaFlag != "" {
		source = schemaFlag
	}
	if strings.HasPrefix(source, "s3://") {
		logg.Fatal("Watch mode requires a local schema document", zap.String("source", source))
	}
	absPath, err := filepath.Abs(source)
	if err != nil {
		logg.Fatal("Failed to resolve schema path", zap.Error(err))
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

	opts := reconcile.Options{
		AllowCreateOrModify: !noCreateFlag,
		Verbose:             verboseFlag,
	}

	run := func(tables []schema.TableSchema) {
		engine := reconcile.NewEngine(client, reconcile.NewLogSink(logg))
		results := engine.Reconcile(ctx, tables, opts)
		s := reconcile.Summarize(results)
		logg.Info("Reconciliation finished",
			zap.String("run_id", engine.RunID()),
			zap.Int("created", s.Created),
			zap.Int("updated", s.Updated),
			zap.Int("unchanged", s.Unchanged),
			zap.Int("skipped", s.Skipped),
			zap.Int("failed", s.Failed),
		)
	}
	run(resolved.Tables)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logg.Fatal("Failed to create file watcher", zap.Error(err))
	}
	defer watcher.Close()

	// Watching the directory survives editors that replace the file on
	// save instead of writing it in place.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		logg.Fatal("Failed to watch schema directory", zap.Error(err))
	}
	logg.Info("Watching schema document", zap.String("path", absPath))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var debounce *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			logg.Info("Stopping watch mode")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(absPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logg.Error("Watcher error", zap.Error(err))
		case <-reload:
			logg.Info("Schema document changed, reconciling")
			next, err := loadDocument(ctx, cfg)
			if err != nil {
				logg.Error("Failed to reload schema document", zap.Error(err))
				continue
			}
			if next.Cluster.Backend != resolved.Cluster.Backend {
				logg.Error("Cluster backend changed, restart required",
					zap.String("from", resolved.Cluster.Backend),
					zap.String("to", next.Cluster.Backend),
				)
				continue
			}
			resolved = next
			run(resolved.Tables)
		}
	}
}
