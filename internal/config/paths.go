package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths are the on-disk locations tmuxedo reads and writes.
type Paths struct {
	TmuxDir     string // ~/.config/tmux
	TmuxedoDir  string // <tmux>/tmuxedo, sourced on bootstrap
	PluginsDir  string // clone target for every plugin
	PluginsFile string // persisted installed-plugin list
	TmuxedoConf string // key bindings sourced on bootstrap
	TmuxConf    string // user's tmux.conf
	LogFile     string
}

// Paths derives the file layout from the configuration.
func (c *Config) Paths() Paths {
	tmuxedo := filepath.Join(c.TmuxDir, "tmuxedo")
	p := Paths{
		TmuxDir:     c.TmuxDir,
		TmuxedoDir:  tmuxedo,
		PluginsDir:  c.PluginsDir,
		PluginsFile: filepath.Join(tmuxedo, "plugins.conf"),
		TmuxedoConf: filepath.Join(tmuxedo, "tmuxedo.conf"),
		TmuxConf:    filepath.Join(c.TmuxDir, "tmux.conf"),
		LogFile:     c.LogFile,
	}
	if p.PluginsDir == "" {
		p.PluginsDir = filepath.Join(c.TmuxDir, "plugins")
	}
	if p.LogFile == "" {
		p.LogFile = filepath.Join(tmuxedo, "tmuxedo.log")
	}
	return p
}

var (
	defaultTmuxedoConf = []string{
		"unbind r",
		"bind r run-shell tmuxedo",
		"bind C-u run-shell 'tmuxedo --update'",
		"bind C-t display-popup -E 'tmuxedo --tui'",
	}
	defaultTmuxConf = []string{"run-shell 'tmuxedo'"}
)

// EnsureStructure creates the directory layout and default files.
// Existing files are left untouched.
func EnsureStructure(p Paths) error {
	for _, dir := range []string{p.TmuxedoDir, p.PluginsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	files := []struct {
		path  string
		lines []string
	}{
		{p.PluginsFile, nil},
		{p.TmuxedoConf, defaultTmuxedoConf},
		{p.TmuxConf, defaultTmuxConf},
	}
	for _, f := range files {
		if err := ensureFile(f.path, f.lines); err != nil {
			return err
		}
	}
	return nil
}

func ensureFile(path string, lines []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
