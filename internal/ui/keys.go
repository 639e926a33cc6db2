package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/timvw/tmuxedo/internal/model"
)

// KeyMap holds every key binding of the manager.
type KeyMap struct {
	Quit            key.Binding
	ForceQuit       key.Binding
	Tabs            [4]key.Binding // indexed like model.Tabs
	ToggleInstalled key.Binding
	ToggleAvailable key.Binding
	Next            key.Binding
	Previous        key.Binding
	Install         key.Binding
	Update          key.Binding
	Remove          key.Binding
	Search          key.Binding
	ExitSearch      key.Binding
	Confirm         key.Binding
	ClearSearch     key.Binding
	Rescan          key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Tabs: [4]key.Binding{
			key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
			key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "themes")),
			key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "status bar")),
			key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "plugins")),
		},
		ToggleInstalled: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("C-o", "toggle installed")),
		ToggleAvailable: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("C-o", "toggle available")),
		Next:            key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "next")),
		Previous:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "previous")),
		Install:         key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "install")),
		Update:          key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "update")),
		Remove:          key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "delete")),
		Search:          key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ExitSearch:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "exit search")),
		Confirm:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		ClearSearch:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Rescan:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "check updates")),
	}
}

// Bindings returns the hints for the keys that do something in state s.
func (k KeyMap) Bindings(s Snapshot) []key.Binding {
	if s.Mode == ModeSearch {
		return []key.Binding{k.ExitSearch, k.Confirm}
	}

	out := []key.Binding{k.Quit, k.Next, k.Previous, k.Search}
	switch {
	case s.Tab == model.TabAll:
		out = append(out, k.Update, k.Remove)
	case s.ToggleAvailable:
		out = append(out, k.ToggleInstalled, k.Install)
	default:
		out = append(out, k.ToggleAvailable, k.Update, k.Remove)
	}
	if s.Query != "" {
		out = append(out, k.ClearSearch)
	}
	return out
}
