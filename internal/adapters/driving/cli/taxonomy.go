package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect taxonomy files",
	Long:  `Show or validate the taxonomy papers are classified against.`,
}

var taxonomyShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Show the labels of a taxonomy",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTaxonomyShow,
}

var taxonomyValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a taxonomy file is usable",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTaxonomyValidate,
}

func init() {
	taxonomyCmd.AddCommand(taxonomyShowCmd)
	taxonomyCmd.AddCommand(taxonomyValidateCmd)
	rootCmd.AddCommand(taxonomyCmd)
}

// resolveTaxonomyPath picks the file argument when given, falling back
// to the configured taxonomy path.
func resolveTaxonomyPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.TaxonomyPath != "" {
			return settings.TaxonomyPath, nil
		}
	}
	return "", errors.New("no taxonomy file given and none configured")
}

func runTaxonomyShow(cmd *cobra.Command, args []string) error {
	if taxonomyLoader == nil {
		return errors.New("taxonomy loader not configured")
	}

	path, err := resolveTaxonomyPath(args)
	if err != nil {
		return err
	}

	tax, err := taxonomyLoader.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}

	cmd.Printf("Taxonomy: %s", tax.Name)
	if tax.Name != tax.ID {
		cmd.Printf(" (%s)", tax.ID)
	}
	cmd.Println()
	cmd.Println()

	for _, label := range tax.Labels {
		if label.Description != "" {
			cmd.Printf("  %s\n    %s\n", label.Name, label.Description)
		} else {
			cmd.Printf("  %s\n", label.Name)
		}
	}

	cmd.Printf("\nTotal: %d labels\n", len(tax.Labels))
	return nil
}

func runTaxonomyValidate(cmd *cobra.Command, args []string) error {
	if taxonomyLoader == nil {
		return errors.New("taxonomy loader not configured")
	}

	path, err := resolveTaxonomyPath(args)
	if err != nil {
		return err
	}

	tax, err := taxonomyLoader.Load(path)
	if err != nil {
		return fmt.Errorf("taxonomy is not valid: %w", err)
	}

	cmd.Printf("Taxonomy %s is valid (%d labels).\n", tax.ID, len(tax.Labels))
	return nil
}
