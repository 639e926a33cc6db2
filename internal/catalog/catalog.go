// Package catalog provides the enumeration of known plugins per category.
//
// A built-in catalog is embedded in the binary. Users can point the
// catalog_file setting at their own YAML file with the same shape:
//
//	themes:
//	  - owner/repo
//	status_bars:
//	  - owner/repo
//	plugins:
//	  - owner/repo
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/timvw/tmuxedo/internal/model"
)

//go:embed default.yaml
var defaultCatalog []byte

// file is the on-disk YAML shape.
type file struct {
	Themes     []string `yaml:"themes"`
	StatusBars []string `yaml:"status_bars"`
	Plugins    []string `yaml:"plugins"`
}

// Catalog is an immutable set of known identifiers per category.
type Catalog struct {
	entries map[model.Category][]string
	owner   map[string]model.Category
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path. An empty path returns the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML. Duplicates within a category are dropped;
// an identifier listed under several categories belongs to the first one in
// themes, status_bars, plugins order.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(map[model.Category][]string{
		model.Themes:     f.Themes,
		model.StatusBars: f.StatusBars,
		model.Plugins:    f.Plugins,
	})
}

// New builds a catalog from explicit lists.
func New(lists map[model.Category][]string) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[model.Category][]string, len(model.Categories)),
		owner:   make(map[string]model.Category),
	}
	for _, cat := range model.Categories {
		for _, id := range lists[cat] {
			if err := model.ValidateID(id); err != nil {
				return nil, fmt.Errorf("%s: %w", cat, err)
			}
			if _, seen := c.owner[id]; seen {
				continue
			}
			c.owner[id] = cat
			c.entries[cat] = append(c.entries[cat], id)
		}
		sort.Strings(c.entries[cat])
	}
	return c, nil
}

// List returns the identifiers of a category in lexicographic order.
func (c *Catalog) List(cat model.Category) []string {
	out := make([]string, len(c.entries[cat]))
	copy(out, c.entries[cat])
	return out
}

// CategoryOf returns the category an identifier is listed under.
func (c *Catalog) CategoryOf(id string) (model.Category, bool) {
	cat, ok := c.owner[id]
	return cat, ok
}

// Len returns the total number of known identifiers.
func (c *Catalog) Len() int {
	return len(c.owner)
}
