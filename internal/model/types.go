// Package model holds the plugin and category types shared by the inventory,
// the update scanner and the interactive manager.
package model

import (
	"fmt"
	"strings"
)

// Category is one of the real plugin categories.
type Category int

const (
	Themes Category = iota
	StatusBars
	Plugins
)

// Categories lists the real categories in display order.
var Categories = []Category{Themes, StatusBars, Plugins}

// String returns the catalog key of the category.
func (c Category) String() string {
	switch c {
	case Themes:
		return "themes"
	case StatusBars:
		return "status_bars"
	case Plugins:
		return "plugins"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory maps a catalog key (or a common alias) to a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "themes", "theme":
		return Themes, nil
	case "status_bars", "status-bars", "statusbars", "status_bar", "status-bar", "statusbar":
		return StatusBars, nil
	case "plugins", "plugin":
		return Plugins, nil
	default:
		return 0, fmt.Errorf("unknown category %q (supported: themes, status_bars, plugins)", s)
	}
}

// Tab is a view selector: one of the real categories or the aggregate All view.
type Tab int

const (
	TabAll Tab = iota
	TabThemes
	TabStatusBars
	TabPlugins
)

// Tabs lists the tabs in the order of their digit keys (1-4).
var Tabs = []Tab{TabAll, TabThemes, TabStatusBars, TabPlugins}

// Category returns the real category behind the tab. ok is false for TabAll.
func (t Tab) Category() (Category, bool) {
	switch t {
	case TabThemes:
		return Themes, true
	case TabStatusBars:
		return StatusBars, true
	case TabPlugins:
		return Plugins, true
	default:
		return 0, false
	}
}

// Title returns the tab label including its digit key.
func (t Tab) Title() string {
	switch t {
	case TabAll:
		return "All (1)"
	case TabThemes:
		return "Themes (2)"
	case TabStatusBars:
		return "Status Bar (3)"
	case TabPlugins:
		return "Plugins (4)"
	default:
		return "?"
	}
}

// TabFor returns the tab showing the given category.
func TabFor(c Category) Tab {
	switch c {
	case Themes:
		return TabThemes
	case StatusBars:
		return TabStatusBars
	default:
		return TabPlugins
	}
}

// Plugin is a single installable unit, identified by its owner/repo reference.
type Plugin struct {
	// ID is the canonical owner/repo reference. It is the persisted key and
	// the clone source.
	ID string `json:"id"`
	// Branch pins the clone to a branch. Empty means the remote default.
	Branch string `json:"branch,omitempty"`
	// RevisionMarker is the newer remote revision found by an update check.
	// Empty unless an update is available.
	RevisionMarker string `json:"revision_marker,omitempty"`
	// UpToDate is true until a check proves otherwise.
	UpToDate bool `json:"up_to_date"`
}

// NewPlugin returns a fresh, up-to-date plugin.
func NewPlugin(id string) Plugin {
	return Plugin{ID: id, UpToDate: true}
}

// Same reports whether two plugins are the same logical plugin.
// Identity is the identifier plus freshness; the revision marker and branch
// never take part.
func (p Plugin) Same(other Plugin) bool {
	return p.ID == other.ID && p.UpToDate == other.UpToDate
}

// SetRevisionMarker records the result of an update check.
func (p *Plugin) SetRevisionMarker(marker string) {
	p.RevisionMarker = marker
	p.UpToDate = marker == ""
}

// UpdateAvailable reports whether a newer remote revision was detected.
func (p Plugin) UpdateAvailable() bool {
	return p.RevisionMarker != ""
}

func (p Plugin) String() string {
	return p.ID
}

// DirName flattens an identifier into a directory-safe name: every slash
// becomes an underscore ("owner/repo" -> "owner_repo").
func DirName(id string) string {
	return strings.ReplaceAll(id, "/", "_")
}

// ValidateID checks that id looks like owner/repo.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("empty plugin identifier")
	}
	if strings.ContainsAny(id, " \t\n") {
		return fmt.Errorf("invalid plugin identifier %q: contains whitespace", id)
	}
	owner, repo, ok := strings.Cut(id, "/")
	if !ok || owner == "" || repo == "" || strings.HasSuffix(repo, "/") {
		return fmt.Errorf("invalid plugin identifier %q: want owner/repo", id)
	}
	return nil
}
