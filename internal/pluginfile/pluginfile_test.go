package pluginfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/timvw/tmuxedo/internal/config"
)

func TestParse(t *testing.T) {
	data := []byte(`# my plugins
tmux-plugins/tmux-sensible

catppuccin/tmux v2.1.3
  tmux-plugins/tmux-yank
tmux-plugins/tmux-sensible main
`)
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Entry{
		{ID: "tmux-plugins/tmux-sensible"},
		{ID: "catppuccin/tmux", Branch: "v2.1.3"},
		{ID: "tmux-plugins/tmux-yank"},
	}
	if len(got) != len(want) {
		t.Fatalf("Parse returned %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseRejectsExtraFields(t *testing.T) {
	if _, err := Parse([]byte("a/b main extra\n")); err == nil {
		t.Fatal("expected error for line with three fields")
	}
}

func TestFormatSorts(t *testing.T) {
	got := string(Format([]Entry{
		{ID: "zeta/z"},
		{ID: "alpha/a", Branch: "dev"},
	}))
	want := "alpha/a dev\nzeta/z\n"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
	if string(Format(nil)) != "" {
		t.Error("Format(nil) should be empty")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmuxedo", "plugins.conf")
	s := NewStore(path)

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("missing file should load empty, got %v", entries)
	}

	in := []Entry{
		{ID: "tmux-plugins/tmux-yank"},
		{ID: "catppuccin/tmux", Branch: "v2.1.3"},
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 || out[0] != in[1] || out[1] != in[0] {
		t.Errorf("round trip = %v, want sorted %v", out, in)
	}

	// Save truncates.
	if err := s.Save(in[:1]); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "tmux-plugins/tmux-yank\n" {
		t.Errorf("file after second save = %q", data)
	}
}

func TestLoadErrorMatchesConfigRead(t *testing.T) {
	// A directory where the file should be cannot be read.
	dir := t.TempDir()
	_, err := NewStore(dir).Load()
	if !errors.Is(err, ErrRead) || !errors.Is(err, config.ErrConfigRead) {
		t.Fatalf("Load error = %v, want ErrRead wrapping ErrConfigRead", err)
	}
}
