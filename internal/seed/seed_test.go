package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/timvw/tmuxedo/internal/config"
	"github.com/timvw/tmuxedo/internal/model"
	"github.com/timvw/tmuxedo/internal/pluginfile"
)

// mockRepo creates the clone directory on success, like git would.
type mockRepo struct {
	root    string
	mu      sync.Mutex
	cloned  []string
	pulled  []string
	failIDs map[string]bool
}

func (m *mockRepo) Clone(_ context.Context, id, branch string) error {
	if m.failIDs[id] {
		return errors.New("exit status 128")
	}
	if err := os.MkdirAll(filepath.Join(m.root, model.DirName(id)), 0755); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cloned = append(m.cloned, id+"@"+branch)
	return nil
}

func (m *mockRepo) Pull(_ context.Context, dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pulled = append(m.pulled, dir)
	return nil
}

func (m *mockRepo) sortedCloned() []string {
	out := append([]string(nil), m.cloned...)
	sort.Strings(out)
	return out
}

func TestCloneAll(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "have_it"), 0755); err != nil {
		t.Fatal(err)
	}
	r := &mockRepo{root: root, failIDs: map[string]bool{"broken/repo": true}}
	s := NewSeeder(r, root)

	entries := []pluginfile.Entry{
		{ID: "have/it"},
		{ID: "new/one", Branch: "dev"},
		{ID: "broken/repo"},
		{ID: "new/two"},
	}
	results := s.CloneAll(context.Background(), entries)

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for i, e := range entries {
		if results[i].ID != e.ID {
			t.Errorf("results[%d].ID = %q, want %q", i, results[i].ID, e.ID)
		}
	}
	if !results[0].Skipped {
		t.Error("existing clone should be skipped")
	}
	if results[2].Err == nil {
		t.Error("failing clone should report an error")
	}
	if results[1].Err != nil || results[3].Err != nil {
		t.Error("siblings of a failed clone should succeed")
	}
	if got := r.sortedCloned(); !reflect.DeepEqual(got, []string{"new/one@dev", "new/two@"}) {
		t.Errorf("cloned = %v", got)
	}
	if failed := Failed(results); len(failed) != 1 || failed[0].ID != "broken/repo" {
		t.Errorf("Failed = %v", failed)
	}
}

func TestPullAllSkipsMissing(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "a_b"), 0755); err != nil {
		t.Fatal(err)
	}
	r := &mockRepo{root: root}
	results := NewSeeder(r, root).PullAll(context.Background(), []pluginfile.Entry{{ID: "a/b"}, {ID: "c/d"}})

	if !reflect.DeepEqual(r.pulled, []string{"a_b"}) {
		t.Errorf("pulled = %v, want [a_b]", r.pulled)
	}
	if results[0].Skipped || !results[1].Skipped {
		t.Errorf("results = %+v", results)
	}
}

type mockMux struct {
	sourced []string
}

func (m *mockMux) Name() string { return "mock" }

func (m *mockMux) RunShell(context.Context, string) error { return nil }

func (m *mockMux) SourceFile(_ context.Context, p string) error {
	m.sourced = append(m.sourced, p)
	return nil
}

type mockPruner struct{ got []string }

func (p *mockPruner) Prune(_ context.Context, ids []string) ([]string, error) {
	p.got = ids
	return nil, nil
}

type mockActivator struct{ calls int }

func (a *mockActivator) Activate(context.Context) error {
	a.calls++
	return nil
}

func TestBootstrap(t *testing.T) {
	paths := (&config.Config{TmuxDir: t.TempDir()}).Paths()
	if err := config.EnsureStructure(paths); err != nil {
		t.Fatal(err)
	}
	extra := filepath.Join(paths.TmuxedoDir, "extra", "keys.conf")
	if err := os.MkdirAll(filepath.Dir(extra), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(extra, []byte("bind x kill-pane\n"), 0644); err != nil {
		t.Fatal(err)
	}
	store := pluginfile.NewStore(paths.PluginsFile)
	if err := store.Save([]pluginfile.Entry{{ID: "tmux-plugins/tmux-sensible"}}); err != nil {
		t.Fatal(err)
	}

	r := &mockRepo{root: paths.PluginsDir}
	mx := &mockMux{}
	pr := &mockPruner{}
	act := &mockActivator{}
	b := &Bootstrap{
		Paths:     paths,
		Store:     store,
		Pruner:    pr,
		Seeder:    NewSeeder(r, paths.PluginsDir),
		Mux:       mx,
		Activator: act,
	}

	sum, err := b.Run(context.Background(), ModeClone)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantSourced := []string{extra, paths.TmuxedoConf}
	if !reflect.DeepEqual(mx.sourced, wantSourced) {
		t.Errorf("sourced = %v, want %v (plugins.conf must be skipped)", mx.sourced, wantSourced)
	}
	if !reflect.DeepEqual(pr.got, []string{"tmux-plugins/tmux-sensible"}) {
		t.Errorf("pruner got %v", pr.got)
	}
	if !reflect.DeepEqual(r.cloned, []string{"tmux-plugins/tmux-sensible@"}) {
		t.Errorf("cloned = %v", r.cloned)
	}
	if act.calls != 1 {
		t.Errorf("activation calls = %d, want 1", act.calls)
	}
	if len(sum.Results) != 1 || len(sum.Sourced) != 2 {
		t.Errorf("summary = %+v", sum)
	}

	// Second run in pull mode pulls the clone made above.
	if _, err := b.Run(context.Background(), ModePull); err != nil {
		t.Fatalf("Run pull: %v", err)
	}
	if !reflect.DeepEqual(r.pulled, []string{"tmux-plugins_tmux-sensible"}) {
		t.Errorf("pulled = %v", r.pulled)
	}
}

func TestBootstrapListReadFailure(t *testing.T) {
	paths := (&config.Config{TmuxDir: t.TempDir()}).Paths()
	if err := os.MkdirAll(paths.PluginsFile, 0755); err != nil {
		t.Fatal(err)
	}
	b := &Bootstrap{
		Paths:     paths,
		Store:     pluginfile.NewStore(paths.PluginsFile),
		Pruner:    &mockPruner{},
		Seeder:    NewSeeder(&mockRepo{root: paths.PluginsDir}, paths.PluginsDir),
		Mux:       &mockMux{},
		Activator: &mockActivator{},
	}
	_, err := b.Run(context.Background(), ModeClone)
	if !errors.Is(err, config.ErrConfigRead) {
		t.Fatalf("Run error = %v, want ErrConfigRead", err)
	}
}
