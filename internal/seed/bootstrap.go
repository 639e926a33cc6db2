package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/timvw/tmuxedo/internal/config"
	"github.com/timvw/tmuxedo/internal/log"
	"github.com/timvw/tmuxedo/internal/mux"
	"github.com/timvw/tmuxedo/internal/pluginfile"
)

// Mode selects what bootstrap does with the listed plugins.
type Mode int

const (
	// ModeClone clones listed plugins that are missing locally.
	ModeClone Mode = iota
	// ModePull pulls listed plugins that are present locally.
	ModePull
)

func (m Mode) String() string {
	if m == ModePull {
		return "pull"
	}
	return "clone"
}

// Pruner deletes clones whose origin does not match their identifier.
type Pruner interface {
	Prune(ctx context.Context, ids []string) ([]string, error)
}

// Activator runs plugin activation scripts.
type Activator interface {
	Activate(ctx context.Context) error
}

// Bootstrap is the non-interactive startup sequence run from tmux.conf.
type Bootstrap struct {
	Paths     config.Paths
	Store     *pluginfile.Store
	Pruner    Pruner
	Seeder    *Seeder
	Mux       mux.Multiplexer
	Activator Activator
}

// Summary reports what a bootstrap run did.
type Summary struct {
	Sourced []string
	Pruned  []string
	Results []Result
}

// Run ensures the directory layout, prunes repointed clones, sources the
// tmuxedo configuration files, clones or pulls the listed plugins and runs
// activation. Only layout and list read failures are returned; everything
// else is logged and reported in the summary.
func (b *Bootstrap) Run(ctx context.Context, mode Mode) (*Summary, error) {
	logger := log.Named("bootstrap")

	if err := config.EnsureStructure(b.Paths); err != nil {
		return nil, err
	}
	entries, err := b.Store.Load()
	if err != nil {
		return nil, err
	}

	sum := &Summary{}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	if sum.Pruned, err = b.Pruner.Prune(ctx, ids); err != nil {
		logger.Warn("prune failed", zap.Error(err))
	}

	confs, err := ConfigFiles(b.Paths)
	if err != nil {
		logger.Warn("listing config files", zap.Error(err))
	}
	for _, f := range confs {
		if err := b.Mux.SourceFile(ctx, f); err != nil {
			logger.Warn("source-file failed", zap.String("file", f), zap.Error(err))
			continue
		}
		sum.Sourced = append(sum.Sourced, f)
	}

	switch mode {
	case ModePull:
		sum.Results = b.Seeder.PullAll(ctx, entries)
	default:
		sum.Results = b.Seeder.CloneAll(ctx, entries)
	}

	if err := b.Activator.Activate(ctx); err != nil {
		logger.Warn("activation failed", zap.Error(err))
	}

	logger.Info("bootstrap done",
		zap.Stringer("mode", mode),
		zap.Int("plugins", len(entries)),
		zap.Int("failed", len(Failed(sum.Results))),
		zap.Int("pruned", len(sum.Pruned)))
	return sum, nil
}

// ConfigFiles returns the *.conf files under the tmuxedo dir, except the
// plugin list, sorted.
func ConfigFiles(p config.Paths) ([]string, error) {
	if _, err := os.Stat(p.TmuxedoDir); os.IsNotExist(err) {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(p.TmuxedoDir), "**/*.conf")
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", p.TmuxedoDir, err)
	}
	sort.Strings(matches)
	var files []string
	for _, m := range matches {
		path := filepath.Join(p.TmuxedoDir, filepath.FromSlash(m))
		if path == p.PluginsFile {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}
