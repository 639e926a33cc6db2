// Package mux provides an abstraction over the terminal multiplexer that
// loads plugins. Only tmux is implemented.
package mux

import "context"

// Multiplexer abstracts the multiplexer commands tmuxedo drives.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux").
	Name() string

	// RunShell runs a plugin activation script inside the multiplexer server.
	RunShell(ctx context.Context, path string) error

	// SourceFile loads a configuration file into the running server.
	SourceFile(ctx context.Context, path string) error
}
