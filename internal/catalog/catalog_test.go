package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/timvw/tmuxedo/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}
	for _, cat := range model.Categories {
		if len(c.List(cat)) == 0 {
			t.Errorf("embedded catalog has no %s", cat)
		}
	}
	cat, ok := c.CategoryOf("tmux-plugins/tmux-resurrect")
	if !ok || cat != model.Plugins {
		t.Errorf("CategoryOf(tmux-resurrect) = %v, %v, want plugins", cat, ok)
	}
}

func TestParseSortsAndDedupes(t *testing.T) {
	data := []byte(`
themes:
  - zeta/theme
  - alpha/theme
  - alpha/theme
plugins:
  - alpha/theme
  - beta/plugin
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	themes := c.List(model.Themes)
	if len(themes) != 2 || themes[0] != "alpha/theme" || themes[1] != "zeta/theme" {
		t.Errorf("themes = %v, want [alpha/theme zeta/theme]", themes)
	}

	// alpha/theme is claimed by themes first.
	plugins := c.List(model.Plugins)
	if len(plugins) != 1 || plugins[0] != "beta/plugin" {
		t.Errorf("plugins = %v, want [beta/plugin]", plugins)
	}
	if cat, _ := c.CategoryOf("alpha/theme"); cat != model.Themes {
		t.Errorf("alpha/theme owned by %v, want themes", cat)
	}
	if got := c.List(model.StatusBars); len(got) != 0 {
		t.Errorf("status bars = %v, want empty", got)
	}
}

func TestParseRejectsInvalidIdentifier(t *testing.T) {
	_, err := Parse([]byte("plugins:\n  - not-a-repo\n"))
	if err == nil {
		t.Fatal("expected error for identifier without owner")
	}
}

func TestListReturnsCopy(t *testing.T) {
	c, err := New(map[model.Category][]string{model.Themes: {"a/b"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l := c.List(model.Themes)
	l[0] = "mutated/value"
	if c.List(model.Themes)[0] != "a/b" {
		t.Error("List should not expose internal storage")
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns default", func(t *testing.T) {
		c, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if c.Len() != Default().Len() {
			t.Errorf("Len = %d, want %d", c.Len(), Default().Len())
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		if err := os.WriteFile(path, []byte("status_bars:\n  - me/bar\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		c, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if c.Len() != 1 {
			t.Errorf("Len = %d, want 1", c.Len())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
