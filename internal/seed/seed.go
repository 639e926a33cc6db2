// Package seed clones or pulls every listed plugin in parallel, and runs the
// non-interactive bootstrap tmux triggers on startup.
package seed

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/timvw/tmuxedo/internal/log"
	"github.com/timvw/tmuxedo/internal/model"
	ppotel "github.com/timvw/tmuxedo/internal/otel"
	"github.com/timvw/tmuxedo/internal/pluginfile"
)

// Repo is the subset of the repository client seeding needs.
type Repo interface {
	Clone(ctx context.Context, id, branch string) error
	Pull(ctx context.Context, dir string) error
}

// Result is the outcome for one plugin.
type Result struct {
	ID      string
	Skipped bool // clone target already existed
	Err     error
}

// Seeder fans out clone and pull operations, one task per plugin.
type Seeder struct {
	Repo       Repo
	PluginsDir string
	Metrics    *ppotel.Metrics // nil-safe
}

// NewSeeder creates a seeder for plugins under pluginsDir.
func NewSeeder(r Repo, pluginsDir string) *Seeder {
	return &Seeder{Repo: r, PluginsDir: pluginsDir}
}

// CloneAll clones every entry whose directory does not exist yet.
// A failed clone is logged and never stops its siblings.
func (s *Seeder) CloneAll(ctx context.Context, entries []pluginfile.Entry) []Result {
	logger := log.Named("seed")
	results := make([]Result, len(entries))
	var eg errgroup.Group
	for i, e := range entries {
		eg.Go(func() error {
			dir := model.DirName(e.ID)
			results[i] = Result{ID: e.ID}
			if _, err := os.Stat(filepath.Join(s.PluginsDir, dir)); err == nil {
				results[i].Skipped = true
				return nil
			}
			if err := s.Repo.Clone(ctx, e.ID, e.Branch); err != nil {
				logger.Error("clone failed", zap.String("plugin", e.ID), zap.String("dir", dir), zap.Error(err))
				s.Metrics.RecordSeed(ctx, "clone", ppotel.OutcomeError)
				results[i].Err = err
				return nil
			}
			logger.Info("cloned", zap.String("plugin", e.ID), zap.String("dir", dir))
			s.Metrics.RecordSeed(ctx, "clone", ppotel.OutcomeOK)
			return nil
		})
	}
	_ = eg.Wait() // tasks report through results and never fail the group
	return results
}

// PullAll pulls every entry that has a local clone.
func (s *Seeder) PullAll(ctx context.Context, entries []pluginfile.Entry) []Result {
	logger := log.Named("seed")
	results := make([]Result, len(entries))
	var eg errgroup.Group
	for i, e := range entries {
		eg.Go(func() error {
			dir := model.DirName(e.ID)
			results[i] = Result{ID: e.ID}
			if _, err := os.Stat(filepath.Join(s.PluginsDir, dir)); err != nil {
				results[i].Skipped = true
				return nil
			}
			if err := s.Repo.Pull(ctx, dir); err != nil {
				logger.Error("pull failed", zap.String("plugin", e.ID), zap.String("dir", dir), zap.Error(err))
				s.Metrics.RecordSeed(ctx, "pull", ppotel.OutcomeError)
				results[i].Err = err
				return nil
			}
			logger.Info("pulled", zap.String("plugin", e.ID), zap.String("dir", dir))
			s.Metrics.RecordSeed(ctx, "pull", ppotel.OutcomeOK)
			return nil
		})
	}
	_ = eg.Wait() // tasks report through results and never fail the group
	return results
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
