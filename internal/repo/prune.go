package repo

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/timvw/tmuxedo/internal/log"
	"github.com/timvw/tmuxedo/internal/model"
)

// Prune removes the local clone of every identifier whose origin no longer
// points at its canonical URL, so the next bootstrap re-clones it. Clones
// whose git config cannot be read are left alone. It returns the pruned
// identifiers.
func (g *Git) Prune(ctx context.Context, ids []string) ([]string, error) {
	logger := log.Named("prune")
	var pruned []string
	for _, id := range ids {
		dir := model.DirName(id)
		origin, err := g.OriginURL(dir)
		if err != nil {
			logger.Debug("skipping", zap.String("plugin", id), zap.Error(err))
			continue
		}
		if sameRemote(origin, g.URL(id)) {
			continue
		}
		if err := g.Remove(ctx, dir); err != nil {
			return pruned, err
		}
		logger.Info("pruned mismatched origin",
			zap.String("plugin", id),
			zap.String("origin", origin),
			zap.String("dir", dir))
		pruned = append(pruned, id)
	}
	return pruned, nil
}

func sameRemote(a, b string) bool {
	norm := func(s string) string {
		s = strings.TrimSuffix(strings.TrimSpace(s), "/")
		return strings.TrimSuffix(s, ".git")
	}
	return norm(a) == norm(b)
}
