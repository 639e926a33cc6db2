// Package ui is the interactive plugin manager: tabs, installed and
// available lists, fuzzy search and the install, update and remove keys.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/timvw/tmuxedo/internal/log"
	"github.com/timvw/tmuxedo/internal/model"
)

// Manager is the plugin inventory the UI drives.
type Manager interface {
	InstalledView(tab model.Tab, query string) []string
	AvailableView(tab model.Tab, query string) []string
	Plugin(id string) (model.Plugin, bool)
	InstalledIDs() []string
	Install(ctx context.Context, tab model.Tab, id string) error
	Update(ctx context.Context, tab model.Tab, id string) error
	Remove(ctx context.Context, tab model.Tab, id string) error
	ApplyMarkers(markers map[string]string)
}

// UpdateScanner finds installed plugins with a newer remote revision.
type UpdateScanner interface {
	Scan(ctx context.Context, ids []string) map[string]string
}

// messages
type scanResultMsg struct {
	markers map[string]string
}

// TUI runs the interactive manager.
type TUI struct {
	Manager Manager
	Scanner UpdateScanner // nil disables update checks
	Theme   Theme
}

// model implements tea.Model
type tuiModel struct {
	inv     Manager
	scanner UpdateScanner
	ctx     context.Context
	keys    KeyMap
	st      styles

	tab             model.Tab
	toggleAvailable bool
	mode            Mode
	search          textinput.Model

	installedSel Selection
	availableSel Selection

	// dimensions
	width  int
	height int

	// status
	scanning bool
	touched  map[string]bool // changed by a lifecycle key while scanning
	message  string
	failed   bool
}

func newModel(ctx context.Context, inv Manager, scanner UpdateScanner, theme Theme) *tuiModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = ""
	ti.CharLimit = 128
	ti.Width = 36

	return &tuiModel{
		inv:     inv,
		scanner: scanner,
		ctx:     ctx,
		keys:    DefaultKeyMap(),
		st:      newStyles(theme),
		search:  ti,
	}
}

func (t *TUI) Run(ctx context.Context) error {
	theme := t.Theme
	if theme == (Theme{}) {
		theme = DarkTheme()
	}
	m := newModel(ctx, t.Manager, t.Scanner, theme)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init starts the first update scan. The lists render before it finishes.
func (m *tuiModel) Init() tea.Cmd {
	return m.startScan()
}

func (m *tuiModel) startScan() tea.Cmd {
	if m.scanner == nil || m.scanning {
		return nil
	}
	ids := m.inv.InstalledIDs()
	if len(ids) == 0 {
		return nil
	}
	m.scanning = true
	m.touched = map[string]bool{}
	scanner := m.scanner
	ctx := m.ctx
	return func() tea.Msg {
		return scanResultMsg{markers: scanner.Scan(ctx, ids)}
	}
}

func (m *tuiModel) query() string {
	return m.search.Value()
}

func (m *tuiModel) installed() []string {
	return m.inv.InstalledView(m.tab, m.query())
}

func (m *tuiModel) available() []string {
	return m.inv.AvailableView(m.tab, m.query())
}

func (m *tuiModel) availableSide() bool {
	return m.toggleAvailable && m.tab != model.TabAll
}

func (m *tuiModel) resetCursors() {
	m.installedSel.Reset()
	m.availableSel.Reset()
}

// clampCursors re-derives both lists and keeps the cursors inside them.
func (m *tuiModel) clampCursors() {
	m.installedSel.Clamp(len(m.installed()))
	m.availableSel.Clamp(len(m.available()))
}

// Snapshot returns the current screen state.
func (m *tuiModel) Snapshot() Snapshot {
	s := Snapshot{
		Tab:             m.tab,
		ToggleAvailable: m.toggleAvailable,
		Mode:            m.mode,
		Query:           m.query(),
		Installed:       m.installed(),
		InstalledCursor: m.installedSel.Cursor,
		Available:       m.available(),
		AvailableCursor: m.availableSel.Cursor,
		Markers:         map[string]string{},
		Scanning:        m.scanning,
		Message:         m.message,
	}
	for _, id := range s.Installed {
		if p, ok := m.inv.Plugin(id); ok && p.UpdateAvailable() {
			s.Markers[id] = p.RevisionMarker
		}
	}
	return s
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case scanResultMsg:
		m.scanning = false
		// The scan saw these plugins before they were changed.
		for id := range m.touched {
			delete(msg.markers, id)
		}
		m.touched = nil
		m.inv.ApplyMarkers(msg.markers)
		n := 0
		for _, marker := range msg.markers {
			if marker != "" {
				n++
			}
		}
		switch n {
		case 0:
			m.setStatus("All plugins up to date", nil)
		case 1:
			m.setStatus("1 update available", nil)
		default:
			m.setStatus(fmt.Sprintf("%d updates available", n), nil)
		}
		return m, nil
	}

	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeNormal:
		return m.handleNormalKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	}
	return m, nil
}

func (m *tuiModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for i, b := range m.keys.Tabs {
		if key.Matches(msg, b) {
			m.tab = model.Tabs[i]
			m.toggleAvailable = false
			m.resetCursors()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleAvailable):
		if m.tab != model.TabAll {
			m.toggleAvailable = !m.toggleAvailable
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.search.SetValue("")
		m.mode = ModeSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.ClearSearch):
		m.search.SetValue("")
		m.clampCursors()
		return m, nil

	case key.Matches(msg, m.keys.Rescan):
		return m, m.startScan()

	case key.Matches(msg, m.keys.Next):
		if m.availableSide() {
			m.availableSel.Next(len(m.available()))
		} else {
			m.installedSel.Next(len(m.installed()))
		}
		return m, nil

	case key.Matches(msg, m.keys.Previous):
		if m.availableSide() {
			m.availableSel.Previous()
		} else {
			m.installedSel.Previous()
		}
		return m, nil

	case key.Matches(msg, m.keys.Install):
		if !m.availableSide() {
			return m, nil
		}
		id, ok := m.availableSel.Selected(m.available())
		if !ok {
			return m, nil
		}
		m.finish(id, "Installed "+id, m.inv.Install(m.ctx, m.tab, id))
		m.clampCursors()
		return m, nil

	case key.Matches(msg, m.keys.Update):
		if m.availableSide() {
			return m, nil
		}
		id, ok := m.installedSel.Selected(m.installed())
		if !ok {
			return m, nil
		}
		m.finish(id, "Updated "+id, m.inv.Update(m.ctx, m.tab, id))
		return m, nil

	case key.Matches(msg, m.keys.Remove):
		if m.availableSide() {
			return m, nil
		}
		id, ok := m.installedSel.Selected(m.installed())
		if !ok {
			return m, nil
		}
		m.finish(id, "Removed "+id, m.inv.Remove(m.ctx, m.tab, id))
		m.clampCursors()
		return m, nil
	}

	return m, nil
}

func (m *tuiModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ExitSearch):
		m.search.SetValue("")
		m.search.Blur()
		m.mode = ModeNormal
		m.resetCursors()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.search.Blur()
		m.mode = ModeNormal
		m.resetCursors()
		return m, nil
	}

	// Forward all other keys to the text input component
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.clampCursors()
	return m, cmd
}

// finish records the outcome of a lifecycle operation on id.
func (m *tuiModel) finish(id, success string, err error) {
	if err == nil && m.scanning {
		m.touched[id] = true
	}
	m.setStatus(success, err)
}

// setStatus records the outcome of an operation for the status line.
func (m *tuiModel) setStatus(success string, err error) {
	if err != nil {
		log.Named("ui").Debug("operation failed", zap.Error(err))
		m.message = err.Error()
		m.failed = true
		return
	}
	m.message = success
	m.failed = false
}
