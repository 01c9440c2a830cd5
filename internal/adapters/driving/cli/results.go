package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage stored classification results",
	Long:  `List, view or delete results persisted with --store.`,
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored results",
	RunE:  runResultsList,
}

var resultsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one stored result",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsShow,
}

var resultsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a stored result",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsDelete,
}

func init() {
	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsShowCmd)
	resultsCmd.AddCommand(resultsDeleteCmd)
	rootCmd.AddCommand(resultsCmd)
}

func runResultsList(cmd *cobra.Command, _ []string) error {
	if resultStore == nil {
		return errors.New("result store not configured")
	}

	ctx := context.Background()
	docs, err := resultStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No stored results.")
		return nil
	}

	cmd.Println("Stored results:")
	cmd.Println()
	for i := range docs {
		doc := &docs[i]
		cmd.Printf("  %s\n", doc.ID)
		if title := doc.Title(); title != "" {
			cmd.Printf("    Title: %s\n", title)
		}
		cmd.Printf("    Source: %s\n", doc.URI)
		cmd.Printf("    Status: %s, %d sections\n", doc.Status, len(doc.Sections))
		cmd.Printf("    Processed: %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d results\n", len(docs))
	return nil
}

func runResultsShow(cmd *cobra.Command, args []string) error {
	if resultStore == nil {
		return errors.New("result store not configured")
	}

	ctx := context.Background()
	doc, err := resultStore.GetDocument(ctx, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no stored result with ID %s", args[0])
		}
		return fmt.Errorf("failed to load result: %w", err)
	}

	outputDocument(cmd, doc)
	return nil
}

func runResultsDelete(cmd *cobra.Command, args []string) error {
	if resultStore == nil {
		return errors.New("result store not configured")
	}

	ctx := context.Background()
	if err := resultStore.DeleteDocument(ctx, args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no stored result with ID %s", args[0])
		}
		return fmt.Errorf("failed to delete result: %w", err)
	}

	cmd.Printf("Result %s deleted.\n", args[0])
	return nil
}
