// Package taxonomy loads classification taxonomies from files on disk.
// The format is decided by the file extension: .toml, .yaml or .yml.
package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// taxonomyFile is the on-disk shape shared by both formats.
type taxonomyFile struct {
	ID     string      `toml:"id" yaml:"id"`
	Name   string      `toml:"name" yaml:"name"`
	Labels []labelFile `toml:"labels" yaml:"labels"`
}

type labelFile struct {
	Name        string `toml:"name" yaml:"name"`
	Description string `toml:"description" yaml:"description"`
}

// FileLoader reads taxonomies from TOML or YAML files.
type FileLoader struct{}

// Ensure FileLoader implements the interface.
var _ driven.TaxonomyLoader = (*FileLoader)(nil)

// NewFileLoader creates a file-based taxonomy loader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads and validates a taxonomy from the given path.
// The ID defaults to the file name without extension when the file
// does not set one.
func (l *FileLoader) Load(path string) (*domain.Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy file: %w", err)
	}

	var parsed taxonomyFile
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		if err := toml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("%w: parsing taxonomy %s: %v", domain.ErrInvalidInput, path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("%w: parsing taxonomy %s: %v", domain.ErrInvalidInput, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported taxonomy format %q", domain.ErrUnsupportedType, ext)
	}

	tax := &domain.Taxonomy{
		ID:     parsed.ID,
		Name:   parsed.Name,
		Labels: make([]domain.TaxonomyLabel, len(parsed.Labels)),
	}
	for i, l := range parsed.Labels {
		tax.Labels[i] = domain.TaxonomyLabel{
			Name:        strings.TrimSpace(l.Name),
			Description: strings.TrimSpace(l.Description),
		}
	}

	if tax.ID == "" {
		base := filepath.Base(path)
		tax.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if tax.Name == "" {
		tax.Name = tax.ID
	}

	if err := tax.Validate(); err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return tax, nil
}
