package ui

import "github.com/timvw/tmuxedo/internal/model"

// Mode is the input mode of the manager.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "normal"
}

// Selection is a cursor into an ordered list. It never wraps around.
type Selection struct {
	Cursor int
}

// Next moves down one row, stopping at the last of n rows.
func (s *Selection) Next(n int) {
	if s.Cursor < n-1 {
		s.Cursor++
	}
}

// Previous moves up one row, stopping at the first.
func (s *Selection) Previous() {
	if s.Cursor > 0 {
		s.Cursor--
	}
}

// Clamp keeps the cursor inside a list of n rows.
func (s *Selection) Clamp(n int) {
	if s.Cursor >= n {
		s.Cursor = n - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
}

// Reset moves the cursor back to the first row.
func (s *Selection) Reset() {
	s.Cursor = 0
}

// Selected returns the row under the cursor, if any.
func (s Selection) Selected(list []string) (string, bool) {
	if s.Cursor < 0 || s.Cursor >= len(list) {
		return "", false
	}
	return list[s.Cursor], true
}

// Snapshot is a read-only copy of everything the screen shows.
type Snapshot struct {
	Tab             model.Tab
	ToggleAvailable bool
	Mode            Mode
	Query           string

	Installed       []string
	InstalledCursor int
	Available       []string // empty on the All tab
	AvailableCursor int

	// Markers holds the revision marker of installed plugins with an
	// update available.
	Markers map[string]string

	Scanning bool
	Message  string
}

// AvailableSide reports whether navigation and actions target the
// available list. The All tab has no available list.
func (s Snapshot) AvailableSide() bool {
	return s.ToggleAvailable && s.Tab != model.TabAll
}
