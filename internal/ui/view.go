package ui

import (
	"strings"

	"github.com/timvw/tmuxedo/internal/model"
)

// rows taken by everything except the two lists
const chromeHeight = 9

func (m *tuiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := m.Snapshot()
	var b strings.Builder

	b.WriteString(m.st.title.Render("tmuxedo"))
	b.WriteString("  ")
	b.WriteString(m.viewTabs(s))
	b.WriteString("\n")
	b.WriteString(m.st.dim.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")

	installedRows, availableRows := m.listHeights(s)
	b.WriteString(m.viewList("Installed Plugins", s.Installed, s.InstalledCursor, !s.AvailableSide(), installedRows, s.Markers))
	if s.Tab != model.TabAll {
		b.WriteString("\n")
		b.WriteString(m.viewList("Available Plugins", s.Available, s.AvailableCursor, s.AvailableSide(), availableRows, nil))
	}

	if s.Mode == ModeSearch || s.Query != "" {
		b.WriteString("\n")
		b.WriteString(m.st.search.Render("Search: " + m.search.View()))
	}

	b.WriteString("\n")
	b.WriteString(m.viewKeymap(s))
	b.WriteString("\n")
	b.WriteString(m.viewStatus(s))
	return b.String()
}

func (m *tuiModel) viewTabs(s Snapshot) string {
	parts := make([]string, len(model.Tabs))
	for i, t := range model.Tabs {
		label := " " + t.Title() + " "
		if t == s.Tab {
			parts[i] = m.st.activeTab.Render(label)
		} else {
			parts[i] = m.st.tab.Render(label)
		}
	}
	return strings.Join(parts, m.st.dim.Render("|"))
}

// listHeights splits the available rows between the installed and the
// available list. The All tab gives everything to the installed list.
func (m *tuiModel) listHeights(s Snapshot) (int, int) {
	rows := m.height - chromeHeight
	if m.height == 0 {
		rows = 20
	}
	if rows < 2 {
		rows = 2
	}
	if s.Tab == model.TabAll {
		return rows, 0
	}
	installed := min(max(rows/3, 1), max(len(s.Installed), 1))
	return installed, max(rows-installed, 1)
}

func (m *tuiModel) viewList(title string, ids []string, cursor int, focused bool, rows int, markers map[string]string) string {
	var b strings.Builder
	if focused {
		b.WriteString(m.st.active.Render(title))
	} else {
		b.WriteString(m.st.header.Render(title))
	}
	b.WriteString("\n")

	if len(ids) == 0 {
		b.WriteString(m.st.dim.Render("  (none)"))
		b.WriteString("\n")
		return b.String()
	}

	start, end := window(len(ids), cursor, rows)
	nameWidth := max(m.width-16, 10)
	for i := start; i < end; i++ {
		id := ids[i]
		line := " * " + truncate(id, nameWidth)
		switch {
		case i == cursor && focused:
			line = m.st.selected.Render(padRight(line, nameWidth+3))
		case i == cursor:
			line = m.st.cursor.Render(line)
		default:
			line = m.st.text.Render(line)
		}
		b.WriteString(line)
		if marker := markers[id]; marker != "" {
			b.WriteString(" ")
			b.WriteString(m.st.badge.Render("↑ " + marker))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *tuiModel) viewKeymap(s Snapshot) string {
	var b strings.Builder
	for _, k := range m.keys.Bindings(s) {
		h := k.Help()
		b.WriteString(" <")
		b.WriteString(m.st.hintKey.Render(h.Key))
		b.WriteString(": ")
		b.WriteString(m.st.hintDesc.Render(h.Desc))
		b.WriteString("> ")
	}
	return b.String()
}

func (m *tuiModel) viewStatus(s Snapshot) string {
	if s.Scanning {
		return m.st.badge.Render("scanning...")
	}
	if s.Message == "" {
		return ""
	}
	if m.failed {
		return m.st.err.Render(s.Message)
	}
	return m.st.ok.Render(s.Message)
}

// window returns the visible slice [start, end) of n rows that keeps
// cursor in view.
func window(n, cursor, rows int) (int, int) {
	if rows <= 0 || n <= rows {
		return 0, n
	}
	start := cursor - rows + 1
	if start < 0 {
		start = 0
	}
	return start, start + rows
}

// truncate cuts a string to at most maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// padRight pads a string with spaces to reach the desired width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
