package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the classification cache",
	Long: `Inspect or clear cached classification results.

Identical sections are never re-submitted to the completion backend;
clearing the cache forces fresh classifications on the next run.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached results",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if classificationCache == nil {
		return errors.New("classification cache not configured")
	}

	count, err := classificationCache.Len(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	cmd.Printf("Cached classifications: %d\n", count)
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if classificationCache == nil {
		return errors.New("classification cache not configured")
	}

	ctx := context.Background()
	count, err := classificationCache.Len(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if err := classificationCache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	cmd.Printf("Cleared %d cached classifications.\n", count)
	return nil
}
