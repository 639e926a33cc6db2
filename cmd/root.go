package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/tmuxedo/internal/mux"
	"github.com/timvw/tmuxedo/internal/seed"
)

var (
	// Global flags.
	flagMux string

	// Root-only flags.
	flagTUI    bool
	flagUpdate bool
)

var rootCmd = &cobra.Command{
	Use:   "tmuxedo",
	Short: "Plugin manager for tmux",
	Long: `tmuxedo installs, updates and removes tmux plugins, themes and status bars.

Run without arguments (typically from tmux.conf) it bootstraps: it sources
the files in the tmuxedo config directory, clones every plugin in
plugins.conf that is missing and runs the plugins' activation scripts.

Configuration is loaded from .tmuxedo.yaml, ~/.config/tmux/tmuxedo/config.yaml
or TMUXEDO_* environment variables.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagTUI {
			return runTUI(cmd.Context())
		}
		mode := seed.ModeClone
		if flagUpdate {
			mode = seed.ModePull
		}
		return runBootstrap(cmd.Context(), mode)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", envOrDefault("TMUXEDO_MUX", ""), "terminal multiplexer: tmux (default: auto-detect)")

	rootCmd.Flags().BoolVarP(&flagTUI, "tui", "t", false, "open the interactive plugin manager")
	rootCmd.Flags().BoolVarP(&flagUpdate, "update", "u", false, "pull every installed plugin instead of cloning missing ones")
	rootCmd.MarkFlagsMutuallyExclusive("tui", "update")
}

// getMultiplexer returns the configured or auto-detected multiplexer.
func getMultiplexer() (mux.Multiplexer, error) {
	if flagMux != "" {
		return mux.FromName(flagMux)
	}
	return mux.Detect()
}

func runBootstrap(ctx context.Context, mode seed.Mode) error {
	a, err := setup(ctx, mode.String())
	if err != nil {
		return err
	}
	defer a.close(ctx)

	m, err := getMultiplexer()
	if err != nil {
		return fmt.Errorf("no supported terminal multiplexer found: %w", err)
	}

	seeder := seed.NewSeeder(a.git, a.paths.PluginsDir)
	seeder.Metrics = a.metrics

	b := &seed.Bootstrap{
		Paths:     a.paths,
		Store:     a.store,
		Pruner:    a.git,
		Seeder:    seeder,
		Mux:       m,
		Activator: mux.NewActivator(m, a.paths.PluginsDir),
	}
	sum, err := b.Run(ctx, mode)
	if err != nil {
		return err
	}
	for _, r := range seed.Failed(sum.Results) {
		fmt.Fprintf(os.Stderr, "warning: %s %s: %v\n", mode, r.ID, r.Err)
	}
	return nil
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
