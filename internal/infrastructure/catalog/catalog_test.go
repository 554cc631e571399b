package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	categories := c.Categories()
	if len(categories) != 12 {
		t.Fatalf("got %d categories, want 12", len(categories))
	}

	byCategory := make(map[domain.Category]domain.CategoryInfo)
	for _, info := range categories {
		byCategory[info.Category] = info
	}
	pii, ok := byCategory[domain.CategoryPersonalIdentifying]
	if !ok {
		t.Fatal("embedded catalog missing personal identifying information category")
	}
	if pii.Name == "" || pii.Description == "" {
		t.Errorf("incomplete entry: %+v", pii)
	}
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	override := `categories:
  - category: "N.J.S.A. 47:1A-1"
    name: "Privacy"
    description: "Override entry."
`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	categories := c.Categories()
	if len(categories) != 1 || categories[0].Name != "Privacy" {
		t.Errorf("categories = %+v", categories)
	}
}

func TestLoadRejectsEntriesWithoutName(t *testing.T) {
	if _, err := parse([]byte(`categories: [{category: "X"}]`)); err == nil {
		t.Fatal("expected error for entry without name")
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	first := c.Categories()
	first[0].Name = "mutated"
	if c.Categories()[0].Name == "mutated" {
		t.Error("Categories must not expose internal slice")
	}
}
