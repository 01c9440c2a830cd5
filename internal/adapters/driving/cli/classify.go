package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

var (
	classifyStore    bool
	classifyJSON     bool
	classifyTaxonomy string
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Classify a single paper",
	Long: `Runs one paper through the extraction and classification pipeline.
Sections are extracted from the source file and each eligible section is
classified against the configured taxonomy.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyStore, "store", false, "persist the result to the local database")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output the result as JSON")
	classifyCmd.Flags().StringVarP(&classifyTaxonomy, "taxonomy", "t", "", "taxonomy file overriding the configured one")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	svc := pipelineService
	ctx := context.Background()

	if classifyTaxonomy != "" {
		if buildPipeline == nil {
			return errors.New("taxonomy override not available")
		}
		rebuilt, _, err := buildPipeline(ctx, classifyTaxonomy)
		if err != nil {
			return fmt.Errorf("loading taxonomy: %w", err)
		}
		svc = rebuilt
	}

	if svc == nil {
		return errors.New("pipeline service not configured")
	}

	path := args[0]
	doc, err := svc.ClassifyFile(ctx, path)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if classifyStore {
		if resultStore == nil {
			return errors.New("result store not configured")
		}
		if err := resultStore.SaveDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to store result: %w", err)
		}
	}

	if classifyJSON {
		return outputDocumentJSON(cmd, doc)
	}

	outputDocument(cmd, doc)
	return nil
}

// documentReport is the JSON shape of a processed document.
// Raw content is omitted; sections and the stage log carry the result.
type documentReport struct {
	ID       string          `json:"id"`
	URI      string          `json:"uri"`
	Status   string          `json:"status"`
	Sections []sectionReport `json:"sections"`
	StageLog []stageReport   `json:"stage_log"`
}

type sectionReport struct {
	Kind       string   `json:"kind"`
	Text       string   `json:"text"`
	Position   int      `json:"position"`
	Label      string   `json:"label,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Source     string   `json:"source,omitempty"`
	Failed     bool     `json:"failed,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type stageReport struct {
	Stage    string `json:"stage"`
	Outcome  string `json:"outcome"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

func buildDocumentReport(doc *domain.Document) documentReport {
	report := documentReport{
		ID:     doc.ID,
		URI:    doc.URI,
		Status: doc.Status.String(),
	}
	for _, s := range doc.Sections {
		sr := sectionReport{
			Kind:     s.Kind.String(),
			Text:     s.Text,
			Position: s.Position,
		}
		if c := s.Classification; c != nil {
			sr.Label = c.Label
			sr.Confidence = c.Confidence
			sr.Source = string(c.Source)
			sr.Failed = c.Failed
			sr.Error = c.Error
		}
		report.Sections = append(report.Sections, sr)
	}
	for _, l := range doc.StageLog {
		report.StageLog = append(report.StageLog, stageReport{
			Stage:    l.Stage,
			Outcome:  l.Outcome.String(),
			Error:    l.Error,
			Duration: l.Duration.String(),
		})
	}
	return report
}

func outputDocumentJSON(cmd *cobra.Command, doc *domain.Document) error {
	data, err := json.MarshalIndent(buildDocumentReport(doc), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputDocument(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("Paper: %s\n", doc.URI)
	if title := doc.Title(); title != "" {
		cmd.Printf("Title: %s\n", title)
	}
	cmd.Printf("Status: %s\n\n", doc.Status)

	cmd.Printf("Sections (%d):\n", len(doc.Sections))
	for _, s := range doc.Sections {
		cmd.Printf("  [%d] %-10s %s\n", s.Position, s.Kind, snippet(s.Text, 60))
		if c := s.Classification; c != nil {
			switch {
			case c.Failed:
				cmd.Printf("      classification failed: %s\n", c.Error)
			case c.Confidence != nil:
				cmd.Printf("      label: %s (%.2f, %s)\n", c.Label, *c.Confidence, c.Source)
			default:
				cmd.Printf("      label: %s (%s)\n", c.Label, c.Source)
			}
		}
	}

	if len(doc.StageLog) > 0 {
		cmd.Println("\nStage log:")
		for _, l := range doc.StageLog {
			line := fmt.Sprintf("  %-16s %-8s %s", l.Stage, l.Outcome, l.Duration)
			cmd.Println(line)
			if l.Error != "" {
				cmd.Printf("      %s\n", l.Error)
			}
		}
	}
}

// snippet truncates text to a single display line.
func snippet(text string, maxLen int) string {
	s := text
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
