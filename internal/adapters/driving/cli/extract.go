package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
)

var (
	extractFull       bool
	extractJSON       bool
	extractNoFallback bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract text from a paper without classifying",
	Long: `Extracts the structural sections of a single paper and prints the
abstract. No completion provider is needed; extraction works offline.

Use --full to print the whole extracted text instead of the abstract.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractFull, "full", false, "print the full extracted text")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output sections as JSON")
	extractCmd.Flags().BoolVar(&extractNoFallback, "no-fallback", false, "disable the fallback extraction engine")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	svc := extractService
	if extractNoFallback {
		if buildExtract == nil {
			return errors.New("fallback control not available")
		}
		svc = buildExtract(true)
	}
	if svc == nil {
		return errors.New("extract service not configured")
	}

	ctx := context.Background()
	result, err := svc.ExtractFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractJSON {
		return outputExtractJSON(cmd, result)
	}

	if extractFull {
		cmd.Println(result.Text)
		return nil
	}

	if result.Title != "" {
		cmd.Printf("Title: %s\n\n", result.Title)
	}
	if result.Abstract == "" {
		cmd.Println("No abstract found.")
		return nil
	}
	cmd.Println(result.Abstract)
	return nil
}

type extractReport struct {
	URI      string              `json:"uri"`
	Title    string              `json:"title,omitempty"`
	Abstract string              `json:"abstract,omitempty"`
	Sections []extractionSection `json:"sections"`
}

type extractionSection struct {
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

func outputExtractJSON(cmd *cobra.Command, result *driving.ExtractResult) error {
	report := extractReport{
		URI:      result.URI,
		Title:    result.Title,
		Abstract: result.Abstract,
	}
	for _, s := range result.Sections {
		report.Sections = append(report.Sections, extractionSection{
			Kind:     s.Kind.String(),
			Text:     s.Text,
			Position: s.Position,
		})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
