package mux

import (
	"context"
	"fmt"
	"os/exec"
)

// Tmux implements the Multiplexer interface for tmux.
type Tmux struct{}

// NewTmux creates a new tmux multiplexer.
func NewTmux() *Tmux {
	return &Tmux{}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// RunShell executes a script with tmux run-shell.
func (t *Tmux) RunShell(ctx context.Context, path string) error {
	if _, err := t.run(ctx, "run-shell", path); err != nil {
		return fmt.Errorf("tmux run-shell %s: %w", path, err)
	}
	return nil
}

// SourceFile loads a configuration file with tmux source-file.
func (t *Tmux) SourceFile(ctx context.Context, path string) error {
	if _, err := t.run(ctx, "source-file", path); err != nil {
		return fmt.Errorf("tmux source-file %s: %w", path, err)
	}
	return nil
}

// run executes a tmux command and returns its stdout.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
