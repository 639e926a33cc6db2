// Package inventory owns the categorized installed and available plugin sets
// and drives install, update and remove through the repository client.
//
// Every catalog entry is either installed or available within its category,
// never both. The aggregate all-installed view is kept in lock-step with the
// three installed sets, and the persisted plugin list is rewritten before a
// mutation that changes the installed set is reported as done. When that
// write fails, the in-memory move is rolled back so memory keeps mirroring
// the file.
//
// An Inventory is not safe for concurrent use. The interactive manager owns
// it on its event loop and merges update-scan results there.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/timvw/tmuxedo/internal/catalog"
	"github.com/timvw/tmuxedo/internal/log"
	"github.com/timvw/tmuxedo/internal/model"
	ppotel "github.com/timvw/tmuxedo/internal/otel"
	"github.com/timvw/tmuxedo/internal/pluginfile"
	"github.com/timvw/tmuxedo/internal/repo"
	"github.com/timvw/tmuxedo/internal/search"
)

var tracer = otel.Tracer("tmuxedo")

// Store persists the installed-plugin list.
type Store interface {
	Load() ([]pluginfile.Entry, error)
	Save([]pluginfile.Entry) error
}

// Activator re-runs plugin activation scripts after a lifecycle change.
type Activator interface {
	Activate(ctx context.Context) error
}

// Deps are the collaborators of an Inventory.
type Deps struct {
	Repo      repo.Client
	Store     Store
	Activator Activator       // nil skips activation
	Metrics   *ppotel.Metrics // nil-safe
}

// Inventory is the in-memory plugin aggregate.
type Inventory struct {
	deps   Deps
	cat    *catalog.Catalog
	logger *zap.Logger

	installed    map[model.Category]map[string]*model.Plugin
	available    map[model.Category]map[string]*model.Plugin
	allInstalled map[string]*model.Plugin
	owner        map[string]model.Category
}

// New loads the persisted list and classifies every catalog entry.
// Listed identifiers missing from the catalog are installed plugins of the
// Plugins category. A read failure is returned as is; it wraps
// config.ErrConfigRead.
func New(cat *catalog.Catalog, deps Deps) (*Inventory, error) {
	entries, err := deps.Store.Load()
	if err != nil {
		return nil, err
	}

	inv := &Inventory{
		deps:         deps,
		cat:          cat,
		logger:       log.Named("inventory"),
		installed:    make(map[model.Category]map[string]*model.Plugin, len(model.Categories)),
		available:    make(map[model.Category]map[string]*model.Plugin, len(model.Categories)),
		allInstalled: make(map[string]*model.Plugin, len(entries)),
		owner:        make(map[string]model.Category, len(entries)),
	}
	for _, c := range model.Categories {
		inv.installed[c] = make(map[string]*model.Plugin)
		inv.available[c] = make(map[string]*model.Plugin)
	}

	persisted := make(map[string]pluginfile.Entry, len(entries))
	for _, e := range entries {
		persisted[e.ID] = e
	}

	for _, c := range model.Categories {
		for _, id := range cat.List(c) {
			if e, ok := persisted[id]; ok {
				inv.addInstalled(c, &model.Plugin{ID: id, Branch: e.Branch, UpToDate: true})
				continue
			}
			p := model.NewPlugin(id)
			inv.available[c][id] = &p
		}
	}
	for _, e := range entries {
		if _, known := cat.CategoryOf(e.ID); known {
			continue
		}
		inv.logger.Debug("listed plugin not in catalog", zap.String("plugin", e.ID))
		inv.addInstalled(model.Plugins, &model.Plugin{ID: e.ID, Branch: e.Branch, UpToDate: true})
	}

	return inv, nil
}

func (inv *Inventory) addInstalled(c model.Category, p *model.Plugin) {
	inv.installed[c][p.ID] = p
	inv.allInstalled[p.ID] = p
	inv.owner[p.ID] = c
}

func (inv *Inventory) dropInstalled(c model.Category, id string) {
	delete(inv.installed[c], id)
	delete(inv.allInstalled, id)
	delete(inv.owner, id)
}

// InstalledView returns the installed identifiers of the tab's category, or
// of every category for the All tab, filtered and ranked by query.
func (inv *Inventory) InstalledView(tab model.Tab, query string) []string {
	c, ok := tab.Category()
	if !ok {
		return search.Rank(keys(inv.allInstalled), query)
	}
	return search.Rank(keys(inv.installed[c]), query)
}

// AvailableView returns the available identifiers of the tab's category,
// filtered and ranked by query. It is empty for the All tab.
func (inv *Inventory) AvailableView(tab model.Tab, query string) []string {
	c, ok := tab.Category()
	if !ok {
		return []string{}
	}
	return search.Rank(keys(inv.available[c]), query)
}

// Plugin returns a copy of the plugin with the given identifier.
func (inv *Inventory) Plugin(id string) (model.Plugin, bool) {
	if p, ok := inv.allInstalled[id]; ok {
		return *p, true
	}
	for _, c := range model.Categories {
		if p, ok := inv.available[c][id]; ok {
			return *p, true
		}
	}
	return model.Plugin{}, false
}

// Owner returns the category an installed plugin belongs to.
func (inv *Inventory) Owner(id string) (model.Category, bool) {
	c, ok := inv.owner[id]
	return c, ok
}

// InstalledIDs returns every installed identifier in ascending order.
func (inv *Inventory) InstalledIDs() []string {
	ids := keys(inv.allInstalled)
	sort.Strings(ids)
	return ids
}

// Install clones an available plugin of the tab's category and records it
// as installed.
func (inv *Inventory) Install(ctx context.Context, tab model.Tab, id string) error {
	c, ok := tab.Category()
	if !ok {
		return ErrAggregateView
	}
	if _, installed := inv.owner[id]; installed {
		return fmt.Errorf("%w: %s", ErrAlreadyInstalled, id)
	}
	if _, ok := inv.available[c][id]; !ok {
		return fmt.Errorf("%w: %s in %s", ErrUnknownPlugin, id, c)
	}
	return inv.install(ctx, c, id, "")
}

// InstallRef installs a plugin by identifier, optionally pinned to a branch.
// The category comes from the catalog; identifiers outside the catalog are
// installed as Plugins.
func (inv *Inventory) InstallRef(ctx context.Context, id, branch string) error {
	if err := model.ValidateID(id); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownPlugin, err)
	}
	if _, installed := inv.owner[id]; installed {
		return fmt.Errorf("%w: %s", ErrAlreadyInstalled, id)
	}
	c := model.Plugins
	for _, cat := range model.Categories {
		if _, ok := inv.available[cat][id]; ok {
			c = cat
			break
		}
	}
	return inv.install(ctx, c, id, branch)
}

func (inv *Inventory) install(ctx context.Context, c model.Category, id, branch string) error {
	ctx, span := tracer.Start(ctx, "install", trace.WithAttributes(
		attribute.String("plugin", id),
		attribute.String("category", c.String()),
	))
	defer span.End()

	fields := []zap.Field{zap.String("plugin", id), zap.String("category", c.String()), zap.String("dir", model.DirName(id))}

	if err := inv.deps.Repo.Clone(ctx, id, branch); err != nil {
		inv.logger.Error("clone failed", append(fields, zap.Error(err))...)
		inv.deps.Metrics.RecordOperation(ctx, "install", ppotel.OutcomeError)
		span.RecordError(err)
		return fmt.Errorf("%w: %s: %v", ErrCloneFailed, id, err)
	}

	prev, wasAvailable := inv.available[c][id]
	delete(inv.available[c], id)
	inv.addInstalled(c, &model.Plugin{ID: id, Branch: branch, UpToDate: true})

	if err := inv.persist(); err != nil {
		inv.dropInstalled(c, id)
		if wasAvailable {
			inv.available[c][id] = prev
		}
		if rmErr := inv.deps.Repo.Remove(ctx, model.DirName(id)); rmErr != nil {
			inv.logger.Warn("removing clone after failed write", append(fields, zap.Error(rmErr))...)
		}
		inv.logger.Error("persist failed, install rolled back", append(fields, zap.Error(err))...)
		inv.deps.Metrics.RecordOperation(ctx, "install", ppotel.OutcomeError)
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrPersistWriteFailed, err)
	}

	inv.logger.Info("installed", fields...)
	inv.deps.Metrics.RecordOperation(ctx, "install", ppotel.OutcomeOK)
	inv.activate(ctx)
	return nil
}

// Update pulls an installed plugin and clears its revision marker. From the
// All tab the owning category is looked up.
func (inv *Inventory) Update(ctx context.Context, tab model.Tab, id string) error {
	c, err := inv.resolveInstalled(tab, id)
	if err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "update", trace.WithAttributes(
		attribute.String("plugin", id),
		attribute.String("category", c.String()),
	))
	defer span.End()

	dir := model.DirName(id)
	fields := []zap.Field{zap.String("plugin", id), zap.String("category", c.String()), zap.String("dir", dir)}

	if err := inv.deps.Repo.Pull(ctx, dir); err != nil {
		inv.logger.Error("pull failed", append(fields, zap.Error(err))...)
		inv.deps.Metrics.RecordOperation(ctx, "update", ppotel.OutcomeError)
		span.RecordError(err)
		return fmt.Errorf("%w: %s: %v", ErrPullFailed, id, err)
	}

	inv.installed[c][id].SetRevisionMarker("")

	inv.logger.Info("updated", fields...)
	inv.deps.Metrics.RecordOperation(ctx, "update", ppotel.OutcomeOK)
	inv.activate(ctx)
	return nil
}

// Remove deletes an installed plugin's directory and moves it back to the
// available set. From the All tab the owning category is looked up; an
// identifier no category owns is ErrNotInstalled.
func (inv *Inventory) Remove(ctx context.Context, tab model.Tab, id string) error {
	c, err := inv.resolveInstalled(tab, id)
	if err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "remove", trace.WithAttributes(
		attribute.String("plugin", id),
		attribute.String("category", c.String()),
	))
	defer span.End()

	dir := model.DirName(id)
	fields := []zap.Field{zap.String("plugin", id), zap.String("category", c.String()), zap.String("dir", dir)}

	if err := inv.deps.Repo.Remove(ctx, dir); err != nil {
		inv.logger.Error("remove failed", append(fields, zap.Error(err))...)
		inv.deps.Metrics.RecordOperation(ctx, "remove", ppotel.OutcomeError)
		span.RecordError(err)
		return fmt.Errorf("%w: %s: %v", ErrRemoveFailed, id, err)
	}

	prev := inv.installed[c][id]
	inv.dropInstalled(c, id)
	// Only catalogued plugins become installable again.
	if owner, ok := inv.cat.CategoryOf(id); ok && owner == c {
		p := model.NewPlugin(id)
		inv.available[c][id] = &p
	}

	if err := inv.persist(); err != nil {
		delete(inv.available[c], id)
		inv.addInstalled(c, prev)
		inv.logger.Error("persist failed, remove rolled back", append(fields, zap.Error(err))...)
		inv.deps.Metrics.RecordOperation(ctx, "remove", ppotel.OutcomeError)
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrPersistWriteFailed, err)
	}

	inv.logger.Info("removed", fields...)
	inv.deps.Metrics.RecordOperation(ctx, "remove", ppotel.OutcomeOK)
	inv.activate(ctx)
	return nil
}

// ApplyMarkers records update-scan results. Identifiers that are not
// installed are ignored; no entry is ever added or removed.
func (inv *Inventory) ApplyMarkers(markers map[string]string) {
	for id, marker := range markers {
		if p, ok := inv.allInstalled[id]; ok {
			p.SetRevisionMarker(marker)
		}
	}
}

func (inv *Inventory) resolveInstalled(tab model.Tab, id string) (model.Category, error) {
	owner, ok := inv.owner[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotInstalled, id)
	}
	if c, ok := tab.Category(); ok && c != owner {
		return 0, fmt.Errorf("%w: %s in %s", ErrNotInstalled, id, c)
	}
	return owner, nil
}

func (inv *Inventory) persist() error {
	entries := make([]pluginfile.Entry, 0, len(inv.allInstalled))
	for _, p := range inv.allInstalled {
		entries = append(entries, pluginfile.Entry{ID: p.ID, Branch: p.Branch})
	}
	return inv.deps.Store.Save(entries)
}

func (inv *Inventory) activate(ctx context.Context) {
	if inv.deps.Activator == nil {
		return
	}
	if err := inv.deps.Activator.Activate(ctx); err != nil {
		inv.logger.Warn("activation failed", zap.Error(err))
	}
}

func keys(m map[string]*model.Plugin) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
