// Package pluginfile reads and writes the persisted installed-plugin list.
//
// The file holds one plugin per line, optionally pinned to a branch:
//
//	tmux-plugins/tmux-sensible
//	catppuccin/tmux v2.1.3
//
// Blank lines and lines starting with # are ignored.
package pluginfile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/timvw/tmuxedo/internal/config"
)

// ErrRead is returned when the list cannot be read. It matches config.ErrConfigRead.
var ErrRead = fmt.Errorf("plugin list: %w", config.ErrConfigRead)

// Entry is one line of the list.
type Entry struct {
	ID     string
	Branch string
}

func (e Entry) String() string {
	if e.Branch == "" {
		return e.ID
	}
	return e.ID + " " + e.Branch
}

// Store is the file-backed list.
type Store struct {
	Path string
}

// NewStore returns a store for the list at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the list. A missing file is an empty list.
func (s *Store) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, s.Path, err)
	}
	return entries, nil
}

// Save truncates the file and writes entries sorted by identifier.
func (s *Store) Save(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(s.Path), err)
	}
	if err := os.WriteFile(s.Path, Format(entries), 0o644); err != nil {
		return fmt.Errorf("writing plugin list: %w", err)
	}
	return nil
}

// Parse decodes list content. Duplicate identifiers keep the first entry.
func Parse(data []byte) ([]Entry, error) {
	var entries []Entry
	seen := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 2 {
			return nil, fmt.Errorf("line %d: want \"owner/repo [branch]\", got %q", lineNo, line)
		}
		e := Entry{ID: fields[0]}
		if len(fields) == 2 {
			e.Branch = fields[1]
		}
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Format encodes entries, sorted by identifier, one per line.
func Format(entries []Entry) []byte {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var buf bytes.Buffer
	for _, e := range sorted {
		buf.WriteString(e.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
