// Package catalog serves statutory exemption category descriptions from a
// YAML file. A built-in catalog ships with the binary; deployments can
// override it with their own file.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

//go:embed categories.yaml
var defaultCatalog []byte

type catalogFile struct {
	Categories []categoryEntry `yaml:"categories"`
}

type categoryEntry struct {
	Category    string   `yaml:"category"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Examples    []string `yaml:"examples"`
}

type Catalog struct {
	categories []domain.CategoryInfo
}

// Load reads the catalog at path, or the embedded default when path is
// empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read category catalog: %w", err)
		}
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode category catalog: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("category catalog is empty")
	}

	categories := make([]domain.CategoryInfo, 0, len(file.Categories))
	for i, entry := range file.Categories {
		if entry.Category == "" || entry.Name == "" {
			return nil, fmt.Errorf("category catalog entry %d: category and name are required", i)
		}
		categories = append(categories, domain.CategoryInfo{
			Category:    domain.Category(entry.Category),
			Name:        entry.Name,
			Description: entry.Description,
			Examples:    entry.Examples,
		})
	}
	return &Catalog{categories: categories}, nil
}

func (c *Catalog) Categories() []domain.CategoryInfo {
	out := make([]domain.CategoryInfo, len(c.categories))
	copy(out, c.categories)
	return out
}
