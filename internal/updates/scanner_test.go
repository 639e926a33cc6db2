package updates

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// mockDiffer returns canned dry-run output per plugin directory.
type mockDiffer struct {
	outputs map[string]string
	errs    map[string]error
	panics  map[string]bool
	delay   time.Duration
	calls   atomic.Int32
}

func (m *mockDiffer) DryRunDiff(_ context.Context, dir string) (string, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.panics[dir] {
		panic("boom")
	}
	if err := m.errs[dir]; err != nil {
		return "", err
	}
	return m.outputs[dir], nil
}

func TestScanIsolatesFailures(t *testing.T) {
	d := &mockDiffer{
		outputs: map[string]string{
			"a_one":   "From https://github.com/a/one\n   abc1234..def5678  main -> origin/main\n",
			"b_two":   "   1111111..2222222  master -> origin/master\n",
			"c_three": "",
		},
		errs:   map[string]error{"d_four": errors.New("exit status 1: fatal: not a git repository")},
		panics: map[string]bool{"e_five": true},
	}
	s := NewScanner(d)

	markers := s.Scan(context.Background(), []string{"a/one", "b/two", "c/three", "d/four", "e/five"})

	want := map[string]string{
		"a/one":   "def5678",
		"b/two":   "2222222",
		"c/three": "",
		"d/four":  "",
		"e/five":  "",
	}
	if len(markers) != len(want) {
		t.Fatalf("Scan returned %d markers, want %d: %v", len(markers), len(want), markers)
	}
	for id, m := range want {
		got, ok := markers[id]
		if !ok {
			t.Errorf("missing result for %s", id)
			continue
		}
		if got != m {
			t.Errorf("marker[%s] = %q, want %q", id, got, m)
		}
	}
	if n := d.calls.Load(); n != 5 {
		t.Errorf("DryRunDiff called %d times, want 5", n)
	}
}

func TestCheckTypedResults(t *testing.T) {
	repoErr := errors.New("exit status 128")
	d := &mockDiffer{
		outputs: map[string]string{"ok_plugin": "Already up to date."},
		errs:    map[string]error{"bad_plugin": repoErr},
		panics:  map[string]bool{"wild_plugin": true},
	}

	results := NewScanner(d).Check(context.Background(), []string{"ok/plugin", "bad/plugin", "wild/plugin"})

	if results[0].ID != "ok/plugin" || results[0].Err != nil || results[0].Marker != "" {
		t.Errorf("ok result = %+v", results[0])
	}
	if !errors.Is(results[1].Err, repoErr) {
		t.Errorf("repo error result = %+v", results[1])
	}
	if !errors.Is(results[2].Err, ErrTaskPanicked) || results[2].ID != "wild/plugin" {
		t.Errorf("panic result = %+v", results[2])
	}
}

func TestCheckRunsConcurrently(t *testing.T) {
	d := &mockDiffer{delay: 100 * time.Millisecond}
	ids := []string{"a/a", "b/b", "c/c", "d/d", "e/e", "f/f", "g/g", "h/h"}

	start := time.Now()
	NewScanner(d).Check(context.Background(), ids)
	elapsed := time.Since(start)

	// Sequential execution would take 800ms.
	if elapsed > 500*time.Millisecond {
		t.Errorf("Check took %v, expected concurrent fan-out", elapsed)
	}
}

func TestScanEmpty(t *testing.T) {
	markers := NewScanner(&mockDiffer{}).Scan(context.Background(), nil)
	if len(markers) != 0 {
		t.Errorf("Scan(nil) = %v, want empty", markers)
	}
}
