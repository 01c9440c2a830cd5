package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
)

var (
	batchStore    bool
	batchTaxonomy string
)

var batchCmd = &cobra.Command{
	Use:   "batch [path...]",
	Short: "Classify many papers in parallel",
	Long: `Runs every given paper through the pipeline across a bounded worker
pool. Directories are expanded to the supported paper files they contain.
One paper's failure never affects the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchStore, "store", false, "persist results to the local database")
	batchCmd.Flags().StringVarP(&batchTaxonomy, "taxonomy", "t", "", "taxonomy file overriding the configured one")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	orch := batchOrchestrator
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if batchTaxonomy != "" {
		if buildPipeline == nil {
			return errors.New("taxonomy override not available")
		}
		_, rebuilt, err := buildPipeline(ctx, batchTaxonomy)
		if err != nil {
			return fmt.Errorf("loading taxonomy: %w", err)
		}
		orch = rebuilt
	}

	if orch == nil {
		return errors.New("batch service not configured")
	}

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		cmd.Println("No papers found.")
		return nil
	}

	cmd.Printf("Processing %d papers...\n", len(paths))

	result, err := batchWithProgress(ctx, cmd, orch, paths)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if batchStore {
		if resultStore == nil {
			return errors.New("result store not configured")
		}
		for _, doc := range result.Documents {
			if err := resultStore.SaveDocument(ctx, doc); err != nil {
				return fmt.Errorf("failed to store result for %s: %w", doc.URI, err)
			}
		}
	}

	outputBatchSummary(cmd, result)
	return nil
}

// expandPaths resolves directories to the supported paper files they
// contain. Files given explicitly are taken as-is.
func expandPaths(args []string) ([]string, error) {
	exts := paperExtensions()

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if _, ok := exts[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// paperExtensions returns the file extensions treated as papers when
// expanding directories, read from settings when available.
func paperExtensions() map[string]struct{} {
	exts := map[string]struct{}{}
	list := domain.DefaultAppSettings().Watch.Extensions
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && len(settings.Watch.Extensions) > 0 {
			list = settings.Watch.Extensions
		}
	}
	for _, e := range list {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return exts
}

// batchWithProgress runs the batch while displaying progress updates.
func batchWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	orch driving.BatchOrchestrator,
	paths []string,
) (*domain.BatchResult, error) {
	type outcome struct {
		result *domain.BatchResult
		err    error
	}
	outCh := make(chan outcome, 1)
	go func() {
		result, err := orch.RunBatch(ctx, paths)
		outCh <- outcome{result, err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastProcessed := -1
	for {
		select {
		case out := <-outCh:
			if lastProcessed >= 0 {
				cmd.Println()
			}
			return out.result, out.err
		case <-ticker.C:
			status := orch.Status()
			if status.Running && status.Processed > lastProcessed {
				cmd.Printf("\rProcessing... %d/%d papers (%d failed)",
					status.Processed, status.Total, status.Failed)
				lastProcessed = status.Processed
			}
		}
	}
}

func outputBatchSummary(cmd *cobra.Command, result *domain.BatchResult) {
	s := result.Summary
	cmd.Printf("Batch finished in %s\n\n", result.Elapsed.Round(time.Millisecond))
	cmd.Printf("  Total:     %d\n", s.Total)
	cmd.Printf("  Completed: %d\n", s.Completed)
	cmd.Printf("  Failed:    %d\n", s.Failed)
	if s.TimedOut > 0 {
		cmd.Printf("  Timed out: %d\n", s.TimedOut)
	}

	// Stable order for the per-paper lines
	docs := make([]*domain.Document, 0, len(result.Documents))
	for _, doc := range result.Documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })

	cmd.Println()
	for _, doc := range docs {
		cmd.Printf("  %-9s %s\n", doc.Status, doc.URI)
		for _, l := range doc.StageLog {
			if l.Outcome == domain.OutcomeFailed {
				cmd.Printf("            %s: %s\n", l.Stage, l.Error)
			}
		}
	}
}
