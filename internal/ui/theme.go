package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used by the plugin manager.
// Use DarkTheme() or LightTheme() to get a pre-built theme,
// or construct a custom Theme.
type Theme struct {
	Primary   lipgloss.Color // title, active tab
	Secondary lipgloss.Color // selected row text
	Error     lipgloss.Color // failed operations
	Warning   lipgloss.Color // scanning, update badges
	Success   lipgloss.Color // completed operations
	Text      lipgloss.Color // primary text
	TextMuted lipgloss.Color // inactive lists, hint descriptions
	Highlight lipgloss.Color // selected row background
	Border    lipgloss.Color // separators, search box
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#fab283"),
		Secondary: lipgloss.Color("#5c9cf5"),
		Error:     lipgloss.Color("#e06c75"),
		Warning:   lipgloss.Color("#f5a742"),
		Success:   lipgloss.Color("#7fd88f"),
		Text:      lipgloss.Color("#eeeeee"),
		TextMuted: lipgloss.Color("#808080"),
		Highlight: lipgloss.Color("#1e1e1e"),
		Border:    lipgloss.Color("#484848"),
	}
}

// LightTheme returns a light theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#b35c00"),
		Secondary: lipgloss.Color("#0550ae"),
		Error:     lipgloss.Color("#cf222e"),
		Warning:   lipgloss.Color("#bf8700"),
		Success:   lipgloss.Color("#116329"),
		Text:      lipgloss.Color("#1f2328"),
		TextMuted: lipgloss.Color("#656d76"),
		Highlight: lipgloss.Color("#f6f8fa"),
		Border:    lipgloss.Color("#d0d7de"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// styles holds all lipgloss styles derived from a Theme.
type styles struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	header    lipgloss.Style
	active    lipgloss.Style // header of the list that has focus
	selected  lipgloss.Style
	cursor    lipgloss.Style // selected row of the list without focus
	badge     lipgloss.Style
	ok        lipgloss.Style
	err       lipgloss.Style
	dim       lipgloss.Style
	text      lipgloss.Style
	search    lipgloss.Style

	hintKey  lipgloss.Style
	hintDesc lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		tab:       lipgloss.NewStyle().Foreground(t.Text),
		activeTab: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		header:    lipgloss.NewStyle().Foreground(t.TextMuted),
		active:    lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Background(t.Highlight),
		cursor:    lipgloss.NewStyle().Foreground(t.Secondary),
		badge:     lipgloss.NewStyle().Foreground(t.Warning),
		ok:        lipgloss.NewStyle().Foreground(t.Success),
		err:       lipgloss.NewStyle().Foreground(t.Error),
		dim:       lipgloss.NewStyle().Foreground(t.TextMuted),
		text:      lipgloss.NewStyle().Foreground(t.Text),
		search: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		hintKey:  lipgloss.NewStyle().Foreground(t.Warning),
		hintDesc: lipgloss.NewStyle().Foreground(t.TextMuted),
	}
}
