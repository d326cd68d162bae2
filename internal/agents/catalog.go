package agents

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogEntry describes an agent for the /agents listing and the MCP tool list.
type CatalogEntry struct {
	Category      string `yaml:"category" json:"category,omitempty"`
	Name          string `yaml:"name" json:"name"`
	Description   string `yaml:"description" json:"description"`
	Details       string `yaml:"details,omitempty" json:"details,omitempty"`
	Instructions  string `yaml:"instructions" json:"instructions"`
	ExampleOutput string `yaml:"example_output,omitempty" json:"example_output,omitempty"`
}

type catalogFile struct {
	Agents []CatalogEntry `yaml:"agents"`
}

func LoadCatalog() ([]CatalogEntry, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) ([]CatalogEntry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse agent catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Agents))
	for i, entry := range file.Agents {
		if entry.Name == "" {
			return nil, fmt.Errorf("agent catalog entry %d has no name", i)
		}
		if _, dup := seen[entry.Name]; dup {
			return nil, fmt.Errorf("agent %q is listed twice in the catalog", entry.Name)
		}
		seen[entry.Name] = struct{}{}
	}

	return file.Agents, nil
}
