package mux

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/timvw/tmuxedo/internal/log"
)

// ActivationPattern matches plugin entry points relative to the plugins dir.
const ActivationPattern = "**/*.tmux"

// Activator runs every plugin activation script found under a directory.
type Activator struct {
	Mux        Multiplexer
	PluginsDir string
}

// NewActivator creates an activator for the scripts under pluginsDir.
func NewActivator(m Multiplexer, pluginsDir string) *Activator {
	return &Activator{Mux: m, PluginsDir: pluginsDir}
}

// Scripts returns the absolute paths of all activation scripts, sorted.
func (a *Activator) Scripts() ([]string, error) {
	if _, err := os.Stat(a.PluginsDir); os.IsNotExist(err) {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(a.PluginsDir), ActivationPattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", a.PluginsDir, err)
	}
	sort.Strings(matches)
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(a.PluginsDir, filepath.FromSlash(m))
	}
	return paths, nil
}

// Activate runs all scripts. A failing script does not stop the others;
// failures are logged and returned joined.
func (a *Activator) Activate(ctx context.Context) error {
	scripts, err := a.Scripts()
	if err != nil {
		return err
	}
	logger := log.Named("activate")
	var errs []error
	for _, s := range scripts {
		if err := a.Mux.RunShell(ctx, s); err != nil {
			logger.Warn("activation script failed", zap.String("script", s), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		logger.Debug("activation script ran", zap.String("script", s))
	}
	return errors.Join(errs...)
}
