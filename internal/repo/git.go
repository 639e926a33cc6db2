// Package repo runs the version-control operations behind plugin lifecycle
// changes: clone, pull, remote-diff checks and directory removal.
package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/timvw/tmuxedo/internal/model"
)

// Client is the set of repository operations the inventory and the update
// scanner depend on. Directories are relative to the plugins dir.
type Client interface {
	Clone(ctx context.Context, id, branch string) error
	Pull(ctx context.Context, dir string) error
	DryRunDiff(ctx context.Context, dir string) (string, error)
	Remove(ctx context.Context, dir string) error
}

// Git implements Client with the git binary.
type Git struct {
	PluginsDir string
	RemoteBase string        // prepended to the identifier to form the clone URL
	Timeout    time.Duration // per git invocation; 0 disables
}

// NewGit creates a git client cloning into pluginsDir.
func NewGit(pluginsDir, remoteBase string, timeout time.Duration) *Git {
	return &Git{PluginsDir: pluginsDir, RemoteBase: remoteBase, Timeout: timeout}
}

// URL returns the clone URL for an identifier.
func (g *Git) URL(id string) string {
	return g.RemoteBase + id
}

// Path returns the absolute path of a plugin directory.
func (g *Git) Path(dir string) string {
	return filepath.Join(g.PluginsDir, dir)
}

// Clone clones id into its directory under the plugins dir, optionally
// pinned to branch.
func (g *Git) Clone(ctx context.Context, id, branch string) error {
	if err := os.MkdirAll(g.PluginsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", g.PluginsDir, err)
	}
	args := []string{"clone"}
	if branch != "" {
		args = append(args, "-b", branch)
	}
	args = append(args, "--single-branch", "--recursive", g.URL(id), model.DirName(id))
	if _, err := g.run(ctx, g.PluginsDir, args...); err != nil {
		return fmt.Errorf("git clone %s: %w", id, err)
	}
	return nil
}

// Pull fast-forwards the plugin and syncs its submodules.
func (g *Git) Pull(ctx context.Context, dir string) error {
	path := g.Path(dir)
	if _, err := g.run(ctx, path, "pull"); err != nil {
		return fmt.Errorf("git pull in %s: %w", dir, err)
	}
	if _, err := g.run(ctx, path, "submodule", "update", "--init", "--recursive"); err != nil {
		return fmt.Errorf("git submodule update in %s: %w", dir, err)
	}
	return nil
}

// DryRunDiff runs git pull --dry-run and returns its combined output.
// git reports ref updates on stderr, so both streams are captured.
func (g *Git) DryRunDiff(ctx context.Context, dir string) (string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "pull", "--dry-run")
	cmd.Dir = g.Path(dir)
	cmd.Env = gitEnv()
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("git pull --dry-run in %s: %w: %s", dir, err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// Remove deletes the plugin directory. A missing directory is not an error.
func (g *Git) Remove(_ context.Context, dir string) error {
	if dir == "" || filepath.Clean(dir) == "." || strings.Contains(dir, "..") {
		return fmt.Errorf("refusing to remove %q", dir)
	}
	if err := os.RemoveAll(g.Path(dir)); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}
	return nil
}

// OriginURL returns the url of remote "origin" from the plugin's git config.
func (g *Git) OriginURL(dir string) (string, error) {
	path := filepath.Join(g.Path(dir), ".git", "config")
	cfg, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true}, path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	sec, err := cfg.GetSection(`remote "origin"`)
	if err != nil {
		return "", fmt.Errorf("%s: no origin remote", path)
	}
	key, err := sec.GetKey("url")
	if err != nil {
		return "", fmt.Errorf("%s: origin has no url", path)
	}
	return key.String(), nil
}

// run executes a git command in dir and returns its stdout.
func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = gitEnv()
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", err
	}
	return string(out), nil
}

func (g *Git) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.Timeout > 0 {
		return context.WithTimeout(ctx, g.Timeout)
	}
	return context.WithCancel(ctx)
}

// gitEnv disables interactive credential prompts; the TUI owns the terminal.
func gitEnv() []string {
	return append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
}

var revisionRange = regexp.MustCompile(`([a-f0-9]{7})\.\.([a-f0-9]{7})`)

// ParseRevisionMarker extracts the new revision from the first old..new
// range in git output. It returns "" when there is none.
func ParseRevisionMarker(text string) string {
	m := revisionRange.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[2]
}
