package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/watcher"
)

var (
	watchStore  bool
	watchSettle time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and classify new papers",
	Long: `Watches a directory and runs every new paper through the pipeline as
it appears. A paper is picked up once it has been quiet for the settle
delay, so files still being downloaded are left alone.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchStore, "store", false, "persist results to the local database")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 0, "how long a file must be quiet before pickup")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}
	if watchStore && resultStore == nil {
		return errors.New("result store not configured")
	}

	settings := domain.DefaultAppSettings()
	if settingsService != nil {
		if loaded, err := settingsService.Get(); err == nil {
			settings = *loaded
		}
	}

	settle := settings.Watch.SettleDelay
	if watchSettle > 0 {
		settle = watchSettle
	}

	dir := args[0]
	handler := func(ctx context.Context, path string) {
		doc, err := pipelineService.ClassifyFile(ctx, path)
		if err != nil {
			cmd.Printf("%s: %v\n", path, err)
			return
		}
		if watchStore {
			if err := resultStore.SaveDocument(ctx, doc); err != nil {
				cmd.Printf("%s: failed to store result: %v\n", path, err)
				return
			}
		}
		cmd.Printf("%s: %s, %d sections\n", path, doc.Status, len(doc.Sections))
	}

	w := watcher.New(dir, handler,
		watcher.WithExtensions(settings.Watch.Extensions),
		watcher.WithSettleDelay(settle),
	)

	cmd.Printf("Watching %s for new papers. Press Ctrl+C to stop.\n", dir)

	if err := w.Run(cmd.Context()); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
