package dataset

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// Format identifies how a source document is parsed.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// SourceConfig defines a single dataset source.
type SourceConfig struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Format Format `yaml:"format"`
	Active bool   `yaml:"active"`
}

// Registry holds the configuration for all dataset sources.
type Registry struct {
	Sources []SourceConfig `yaml:"sources"`
}

// LoadRegistry parses the embedded source configuration.
func LoadRegistry() (*Registry, error) {
	data, err := sourcesYAML.ReadFile("config/sources.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded sources config: %w", err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse sources config: %w", err)
	}
	return &reg, nil
}

// ActiveSources returns the sources enabled for loading, in file order.
func (r *Registry) ActiveSources() []SourceConfig {
	var active []SourceConfig
	for _, s := range r.Sources {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}
