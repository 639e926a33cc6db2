// Package updates checks installed plugins for newer remote revisions.
package updates

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/timvw/tmuxedo/internal/log"
	"github.com/timvw/tmuxedo/internal/model"
	ppotel "github.com/timvw/tmuxedo/internal/otel"
	"github.com/timvw/tmuxedo/internal/repo"
)

var tracer = otel.Tracer("tmuxedo")

// ErrTaskPanicked reports a check task that panicked instead of returning.
var ErrTaskPanicked = errors.New("update check panicked")

// Differ runs a dry-run pull in a plugin directory.
type Differ interface {
	DryRunDiff(ctx context.Context, dir string) (string, error)
}

// Result is the outcome of checking one plugin. Err is either a repository
// error or ErrTaskPanicked; Marker is empty whenever Err is set.
type Result struct {
	ID     string
	Marker string
	Err    error
}

// Scanner fans out one dry-run check per plugin.
type Scanner struct {
	Differ  Differ
	Metrics *ppotel.Metrics // OTEL metric counters; nil-safe
}

// NewScanner creates a scanner using d for the remote checks.
func NewScanner(d Differ) *Scanner {
	return &Scanner{Differ: d}
}

// Check runs every check concurrently, with no limit, and returns once all
// of them have finished. Results are in the order of ids. A failing or
// panicking task never affects the others.
func (s *Scanner) Check(ctx context.Context, ids []string) []Result {
	ctx, span := tracer.Start(ctx, "check_updates",
		trace.WithAttributes(attribute.Int("plugins.total", len(ids))))
	defer span.End()

	results := make([]Result, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(idx int, id string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[idx] = Result{ID: id, Err: fmt.Errorf("%w: %v", ErrTaskPanicked, r)}
				}
			}()
			results[idx] = s.checkPlugin(ctx, id)
		}(i, id)
	}
	wg.Wait()

	logger := log.Named("updates")
	updates, failures := 0, 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failures++
			logger.Warn("update check failed", zap.String("plugin", r.ID), zap.Error(r.Err))
			s.Metrics.RecordUpdateCheck(ctx, ppotel.OutcomeError)
		case r.Marker != "":
			updates++
			logger.Debug("update available", zap.String("plugin", r.ID), zap.String("revision", r.Marker))
			s.Metrics.RecordUpdateCheck(ctx, "update")
		default:
			s.Metrics.RecordUpdateCheck(ctx, "current")
		}
	}
	span.SetAttributes(
		attribute.Int("plugins.updates", updates),
		attribute.Int("plugins.failed", failures),
	)
	return results
}

// Scan checks every plugin and returns its revision marker keyed by
// identifier. Failed checks count as no update.
func (s *Scanner) Scan(ctx context.Context, ids []string) map[string]string {
	results := s.Check(ctx, ids)
	markers := make(map[string]string, len(results))
	for _, r := range results {
		markers[r.ID] = r.Marker
	}
	return markers
}

func (s *Scanner) checkPlugin(ctx context.Context, id string) Result {
	dir := model.DirName(id)
	ctx, span := tracer.Start(ctx, "check_plugin",
		trace.WithAttributes(
			attribute.String("plugin", id),
			attribute.String("dir", dir),
		))
	defer span.End()

	out, err := s.Differ.DryRunDiff(ctx, dir)
	if err != nil {
		span.RecordError(err)
		return Result{ID: id, Err: err}
	}
	marker := repo.ParseRevisionMarker(out)
	span.SetAttributes(attribute.String("revision", marker))
	return Result{ID: id, Marker: marker}
}
